package entity

// Row is implemented by every persisted entity so the write helpers can address
// it by table name and primary key.
type Row interface {
	TableName() string
	RowID() string
	SetRowID(id string)
}
