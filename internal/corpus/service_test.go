package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/QuestionnaireAPI/internal/data/sqlStore"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/appErrors"
	"github.com/akolanti/QuestionnaireAPI/internal/domain/corpusModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *sqlStore.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := sqlStore.Open(context.Background(), sqlStore.DriverSQLite, "file:"+filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	storage := filepath.Join(dir, "docs")
	return NewService(st, storage), st, storage
}

func TestSave_StoresFileAndDocument(t *testing.T) {
	svc, st, storage := setup(t)
	ctx := context.Background()

	doc, err := svc.Save(ctx, "../policy.pdf", "", strings.NewReader("we encrypt at rest"))
	require.NoError(t, err)

	assert.Equal(t, "policy.pdf", doc.Filename)
	assert.Equal(t, corpusModel.DocumentUploaded, doc.Status)
	assert.Equal(t, filepath.Join(storage, doc.Id+"_policy.pdf"), doc.StoragePath)
	assert.Equal(t, "application/pdf", doc.ContentType)

	data, err := os.ReadFile(doc.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "we encrypt at rest", string(data))

	stored, err := st.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.StoragePath, stored.StoragePath)
}

func TestSave_RejectsMissingName(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Save(context.Background(), "  ", "", strings.NewReader("x"))
	assert.True(t, appErrors.IsValidation(err))
}

func TestAdopt_MovesFile(t *testing.T) {
	svc, _, _ := setup(t)
	inbox := t.TempDir()
	src := filepath.Join(inbox, "controls.md")
	require.NoError(t, os.WriteFile(src, []byte("# controls"), 0o644))

	doc, err := svc.Adopt(context.Background(), src)
	require.NoError(t, err)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone")
	data, err := os.ReadFile(doc.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "# controls", string(data))

	docs, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "controls.md", docs[0].Filename)
}
