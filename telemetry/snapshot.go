package telemetry

// AgentRecord is one row of a population dump.
type AgentRecord struct {
	ID     uint32 `csv:"id"`
	Player bool   `csv:"player"`
	X      int    `csv:"x"`
	Y      int    `csv:"y"`
	Kind   string `csv:"kind"`
	Extent int    `csv:"extent"`
	R      uint8  `csv:"r"`
	G      uint8  `csv:"g"`
	B      uint8  `csv:"b"`
	Age    int    `csv:"age"`
}
