package infrastructure

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

func newTestHistoryRepo(t *testing.T) *SQLiteHistoryRepository {
	t.Helper()
	repo, err := NewSQLiteHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHistoryRepository_CreateAndFindRecent(t *testing.T) {
	repo := newTestHistoryRepo(t)

	first := domain.NewDownloadRecord("https://example.com/a", domain.DownloadResult{
		Success:    true,
		OutputPath: "/downloads/a.mp4",
	})
	second := domain.NewDownloadRecord("https://example.com/b", domain.DownloadResult{
		Success: false,
		Err:     errors.New("engine failed"),
	})

	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	records, err := repo.FindRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	urls := []string{records[0].URL, records[1].URL}
	assert.Contains(t, urls, "https://example.com/a")
	assert.Contains(t, urls, "https://example.com/b")

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestHistoryRepository_FindRecentLimit(t *testing.T) {
	repo := newTestHistoryRepo(t)

	for i := 0; i < 5; i++ {
		record := domain.NewDownloadRecord("https://example.com/v", domain.DownloadResult{Success: true})
		require.NoError(t, repo.Create(record))
	}

	records, err := repo.FindRecent(3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestNewDownloadRecord_CapturesFailure(t *testing.T) {
	result := domain.DownloadResult{Success: false, Err: errors.New("no formats")}
	record := domain.NewDownloadRecord("https://example.com/x", result)

	assert.False(t, record.Success)
	assert.Equal(t, "no formats", record.ErrorMessage)
	assert.NotEmpty(t, record.ID)
}

var _ domain.HistoryRepository = (*SQLiteHistoryRepository)(nil)
