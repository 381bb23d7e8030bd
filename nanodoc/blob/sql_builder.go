package blob

import (
	"github.com/Masterminds/squirrel"
)

const blobsTable = "blobs"

// sqlBuilder wraps squirrel to generate the statements SQLiteStore runs
type sqlBuilder struct {
	sq squirrel.StatementBuilderType
}

func newSQLBuilder() *sqlBuilder {
	return &sqlBuilder{
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (b *sqlBuilder) buildCount(name string) (string, []interface{}, error) {
	return b.sq.Select("COUNT(*)").From(blobsTable).Where(squirrel.Eq{"name": name}).ToSql()
}

func (b *sqlBuilder) buildSelect(name string) (string, []interface{}, error) {
	return b.sq.Select("data").From(blobsTable).Where(squirrel.Eq{"name": name}).ToSql()
}

// buildUpsert replaces the whole blob in one statement
func (b *sqlBuilder) buildUpsert(name string, data []byte) (string, []interface{}, error) {
	return b.sq.Insert(blobsTable).
		Columns("name", "data").
		Values(name, data).
		Suffix("ON CONFLICT(name) DO UPDATE SET data = excluded.data").
		ToSql()
}

func (b *sqlBuilder) buildDelete(name string) (string, []interface{}, error) {
	return b.sq.Delete(blobsTable).Where(squirrel.Eq{"name": name}).ToSql()
}
