package database

// BaseModel is implemented by every persisted entity. ParseModel stamps
// identifiers and timestamps before a write.
type BaseModel interface {
	ParseModel() any
}
