package migration

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	questdb_mock "github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testFiles = fstest.MapFS{
	"20250101000000_create_quotes.up.sql": {Data: []byte("CREATE TABLE quotes (isin SYMBOL);")},
	"20250102000000_add_index.up.sql":     {Data: []byte("ALTER TABLE quotes ADD COLUMN source SYMBOL;\nALTER TABLE quotes ADD COLUMN note STRING;")},
	"README.md":                           {Data: []byte("ignored")},
}

func TestRunner_LoadMigrations(t *testing.T) {
	r := NewRunner(nil, testFiles, logger.NewNopLogger())

	migrations, err := r.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "20250101000000_create_quotes", migrations[0].ID)
	assert.Equal(t, "create_quotes", migrations[0].Name)
	assert.Equal(t, 2025, migrations[0].Timestamp.Year())
	assert.Equal(t, "add_index", migrations[1].Name)
}

func TestRunner_MigrateUp(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		steps    int
		mockFn   func(client *questdb_mock.MockQuestDBClient, rows *questdb_mock.MockRowsInterface)
		assertFn func(t *testing.T, applied []string, err error)
	}{
		{
			name: "applies pending migrations statement by statement",
			mockFn: func(client *questdb_mock.MockQuestDBClient, rows *questdb_mock.MockRowsInterface) {
				client.EXPECT().Exec(ctx, gomock.Any()).Return(nil) // schema_migrations
				client.EXPECT().Query(ctx, gomock.Any()).Return(rows, nil)
				rows.EXPECT().Next().Return(true)
				rows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					*(dest[0].(*string)) = "20250101000000_create_quotes"
					return nil
				})
				rows.EXPECT().Next().Return(false)
				rows.EXPECT().Err().Return(nil)
				rows.EXPECT().Close()

				client.EXPECT().Exec(ctx, "ALTER TABLE quotes ADD COLUMN source SYMBOL").Return(nil)
				client.EXPECT().Exec(ctx, "ALTER TABLE quotes ADD COLUMN note STRING").Return(nil)
				client.EXPECT().Exec(ctx, gomock.Any(), "20250102000000_add_index", "add_index").Return(nil)
			},
			assertFn: func(t *testing.T, applied []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"20250102000000_add_index"}, applied)
			},
		},
		{
			name:  "steps limits the number applied",
			steps: 1,
			mockFn: func(client *questdb_mock.MockQuestDBClient, rows *questdb_mock.MockRowsInterface) {
				client.EXPECT().Exec(ctx, gomock.Any()).Return(nil)
				client.EXPECT().Query(ctx, gomock.Any()).Return(rows, nil)
				rows.EXPECT().Next().Return(false)
				rows.EXPECT().Err().Return(nil)
				rows.EXPECT().Close()

				client.EXPECT().Exec(ctx, "CREATE TABLE quotes (isin SYMBOL)").Return(nil)
				client.EXPECT().Exec(ctx, gomock.Any(), "20250101000000_create_quotes", "create_quotes").Return(nil)
			},
			assertFn: func(t *testing.T, applied []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"20250101000000_create_quotes"}, applied)
			},
		},
		{
			name: "failing statement stops the run",
			mockFn: func(client *questdb_mock.MockQuestDBClient, rows *questdb_mock.MockRowsInterface) {
				client.EXPECT().Exec(ctx, gomock.Any()).Return(nil)
				client.EXPECT().Query(ctx, gomock.Any()).Return(rows, nil)
				rows.EXPECT().Next().Return(false)
				rows.EXPECT().Err().Return(nil)
				rows.EXPECT().Close()

				client.EXPECT().Exec(ctx, "CREATE TABLE quotes (isin SYMBOL)").Return(errors.New("table exists"))
			},
			assertFn: func(t *testing.T, applied []string, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "20250101000000_create_quotes")
				assert.Empty(t, applied)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := questdb_mock.NewMockQuestDBClient(ctrl)
			rows := questdb_mock.NewMockRowsInterface(ctrl)
			tc.mockFn(client, rows)

			r := NewRunner(client, testFiles, logger.NewNopLogger())
			applied, err := r.MigrateUp(ctx, tc.steps)
			tc.assertFn(t, applied, err)
		})
	}
}
