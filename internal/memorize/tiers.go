package memorize

// DefaultTiers returns the stock ten-tier progression. A fresh copy is
// returned so callers cannot mutate a shared table.
func DefaultTiers() TierTable {
	return TierTable{
		{Name: "Saul", MinCount: 1, MaxCount: 5, Next: "Nicodemus"},
		{Name: "Nicodemus", MinCount: 6, MaxCount: 10, Next: "Zacchaeus"},
		{Name: "Zacchaeus", MinCount: 11, MaxCount: 20, Next: "Thomas"},
		{Name: "Thomas", MinCount: 21, MaxCount: 35, Next: "Barnabas"},
		{Name: "Barnabas", MinCount: 36, MaxCount: 50, Next: "Timothy"},
		{Name: "Timothy", MinCount: 51, MaxCount: 75, Next: "Apollos"},
		{Name: "Apollos", MinCount: 76, MaxCount: 100, Next: "Peter"},
		{Name: "Peter", MinCount: 101, MaxCount: 150, Next: "John"},
		{Name: "John", MinCount: 151, MaxCount: 250, Next: "Paul"},
		{Name: "Paul", MinCount: 251, MaxCount: Unbounded},
	}
}
