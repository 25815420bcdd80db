package converters

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darianmavgo/mkinsert/converters/common"
)

func TestLoadSQLInMemory(t *testing.T) {
	script := "create table t (id integer, name text);\n" +
		"begin transaction;\n\ninsert into t (id, name) values\n(1, 'a'),\n(2, NULL);\n\ncommit;"

	result, err := LoadSQL(context.Background(), strings.NewReader(script), LoadOptions{Table: "t"})
	require.NoError(t, err)
	assert.Equal(t, MemoryDatabase, result.Database)
	assert.Equal(t, int64(2), result.Rows)
}

func TestLoadSQLInvalidScript(t *testing.T) {
	_, err := LoadSQL(context.Background(), strings.NewReader("insert into nowhere values (1);"), LoadOptions{})
	assert.Error(t, err)
}

func TestConvertThenLoadFile(t *testing.T) {
	dir := t.TempDir()
	src := writeCSV(t, dir, "orders.csv", "id,item,qty,paid\n1,tea,2,true\n2,O'Neil's jam,1.5,false\n3,,,\n4,rice,10,TRUE\n5,salt,-1,\n")
	prefix := filepath.Join(dir, "prefix.sql")
	require.NoError(t, os.WriteFile(prefix, []byte("create table {{.Table}} (id integer, item text, qty real, paid boolean);"), 0644))

	stats, err := Convert(context.Background(), Request{
		Source: src,
		Config: common.ConversionConfig{
			Delimiter:   ',',
			Headers:     true,
			Typed:       true,
			Chunk:       2,
			ChunkInsert: 2,
			Prefix:      prefix,
		},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 5, stats.Rows)

	script, err := os.Open(filepath.Join(dir, "orders.sql"))
	require.NoError(t, err)
	defer script.Close()

	dbPath := filepath.Join(dir, "orders.db")
	result, err := LoadSQL(context.Background(), script, LoadOptions{Database: dbPath, Table: "orders"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Rows)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var item string
	require.NoError(t, db.QueryRow("SELECT item FROM orders WHERE id = 2").Scan(&item))
	assert.Equal(t, "O'Neil's jam", item)

	var qty sql.NullFloat64
	require.NoError(t, db.QueryRow("SELECT qty FROM orders WHERE id = 3").Scan(&qty))
	assert.False(t, qty.Valid)
}
