package stmt

// Column is the base interface for all column types.
// Each column carries its table name, column name, and type information
// to enable type-safe statement building.
type Column interface {
	TableName() string
	ColumnName() string
	IsNullable() bool
	GoType() string // "int64", "string", "*string", etc.
}

// --- Int64 Columns (for bigint type) ---

// Int64Column represents a non-nullable bigint column.
type Int64Column struct {
	Table string
	Name  string
}

func (c Int64Column) TableName() string  { return c.Table }
func (c Int64Column) ColumnName() string { return c.Name }
func (c Int64Column) IsNullable() bool   { return false }
func (c Int64Column) GoType() string     { return "int64" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c Int64Column) WithTable(tableName string) Int64Column {
	return Int64Column{Table: tableName, Name: c.Name}
}

// NullInt64Column represents a nullable bigint column.
type NullInt64Column struct {
	Table string
	Name  string
}

func (c NullInt64Column) TableName() string  { return c.Table }
func (c NullInt64Column) ColumnName() string { return c.Name }
func (c NullInt64Column) IsNullable() bool   { return true }
func (c NullInt64Column) GoType() string     { return "*int64" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c NullInt64Column) WithTable(tableName string) NullInt64Column {
	return NullInt64Column{Table: tableName, Name: c.Name}
}

// --- Float64 Columns (for double precision type) ---

// Float64Column represents a non-nullable double precision column.
type Float64Column struct {
	Table string
	Name  string
}

func (c Float64Column) TableName() string  { return c.Table }
func (c Float64Column) ColumnName() string { return c.Name }
func (c Float64Column) IsNullable() bool   { return false }
func (c Float64Column) GoType() string     { return "float64" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c Float64Column) WithTable(tableName string) Float64Column {
	return Float64Column{Table: tableName, Name: c.Name}
}

// --- Bool Columns (for boolean type) ---

// BoolColumn represents a non-nullable boolean column.
type BoolColumn struct {
	Table string
	Name  string
}

func (c BoolColumn) TableName() string  { return c.Table }
func (c BoolColumn) ColumnName() string { return c.Name }
func (c BoolColumn) IsNullable() bool   { return false }
func (c BoolColumn) GoType() string     { return "bool" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c BoolColumn) WithTable(tableName string) BoolColumn {
	return BoolColumn{Table: tableName, Name: c.Name}
}

// --- String Columns (for text/varchar type) ---

// StringColumn represents a non-nullable text column.
type StringColumn struct {
	Table string
	Name  string
}

func (c StringColumn) TableName() string  { return c.Table }
func (c StringColumn) ColumnName() string { return c.Name }
func (c StringColumn) IsNullable() bool   { return false }
func (c StringColumn) GoType() string     { return "string" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c StringColumn) WithTable(tableName string) StringColumn {
	return StringColumn{Table: tableName, Name: c.Name}
}

// NullStringColumn represents a nullable text column.
type NullStringColumn struct {
	Table string
	Name  string
}

func (c NullStringColumn) TableName() string  { return c.Table }
func (c NullStringColumn) ColumnName() string { return c.Name }
func (c NullStringColumn) IsNullable() bool   { return true }
func (c NullStringColumn) GoType() string     { return "*string" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c NullStringColumn) WithTable(tableName string) NullStringColumn {
	return NullStringColumn{Table: tableName, Name: c.Name}
}

// --- Time Columns (for timestamp type) ---

// TimeColumn represents a non-nullable timestamp column.
type TimeColumn struct {
	Table string
	Name  string
}

func (c TimeColumn) TableName() string  { return c.Table }
func (c TimeColumn) ColumnName() string { return c.Name }
func (c TimeColumn) IsNullable() bool   { return false }
func (c TimeColumn) GoType() string     { return "time.Time" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c TimeColumn) WithTable(tableName string) TimeColumn {
	return TimeColumn{Table: tableName, Name: c.Name}
}

// NullTimeColumn represents a nullable timestamp column.
type NullTimeColumn struct {
	Table string
	Name  string
}

func (c NullTimeColumn) TableName() string  { return c.Table }
func (c NullTimeColumn) ColumnName() string { return c.Name }
func (c NullTimeColumn) IsNullable() bool   { return true }
func (c NullTimeColumn) GoType() string     { return "*time.Time" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c NullTimeColumn) WithTable(tableName string) NullTimeColumn {
	return NullTimeColumn{Table: tableName, Name: c.Name}
}

// --- Bytes Columns (for blob type) ---

// BytesColumn represents a blob column.
type BytesColumn struct {
	Table string
	Name  string
}

func (c BytesColumn) TableName() string  { return c.Table }
func (c BytesColumn) ColumnName() string { return c.Name }
func (c BytesColumn) IsNullable() bool   { return false }
func (c BytesColumn) GoType() string     { return "[]byte" }

// WithTable returns a copy of this column with a different table name (for aliases).
func (c BytesColumn) WithTable(tableName string) BytesColumn {
	return BytesColumn{Table: tableName, Name: c.Name}
}
