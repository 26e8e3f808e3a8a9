package viewer

// Memory Display Constants
const (
	// MemoryDisplayColumns is the number of bytes shown per row in the
	// memory hex dump panel.
	MemoryDisplayColumns = 16

	// MemoryDisplayRows is the number of rows shown in the memory hex
	// dump panel before the user has to scroll.
	MemoryDisplayRows = 64
)

// Panel Layout Constants
const (
	// SourcePanelWeight and ObjectPanelWeight control how the left
	// column splits between the source listing and the object program
	// text when both are visible.
	SourcePanelWeight = 3
	ObjectPanelWeight = 2

	// SymbolsPanelWeight and MemoryPanelWeight control the same split
	// for the right column.
	SymbolsPanelWeight = 1
	MemoryPanelWeight  = 2
)
