package wire

const (
	// MaxMessageSize bounds a single encoded message in either direction.
	MaxMessageSize = 16 << 20

	// maxNestedLevels bounds CBOR nesting. Each ShowResults level costs three
	// levels (action, result list, result), so this allows deep drill-down.
	maxNestedLevels = 512
)
