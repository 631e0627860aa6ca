package metrics

// Attribute keys shared by the otel instruments.
const (
	AttrLeague = "league"
	AttrSource = "source"
	AttrResult = "result"
)
