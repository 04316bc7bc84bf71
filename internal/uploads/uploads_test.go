package uploads

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildForm produces multipart file headers the way gin would hand them
// to the handler.
func buildForm(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func TestSaveAll_StoresAllowedFiles(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fhs := buildForm(t, map[string][]byte{
		"spec.pdf":    []byte("%PDF-1.4 fake"),
		"leads.csv":   []byte("name,email\n"),
		"config.json": []byte(`{"a":1}`),
	})

	metas, err := s.SaveAll(fhs)
	require.NoError(t, err)
	require.Len(t, metas, 3)

	for _, m := range metas {
		require.NotEmpty(t, m.OriginalName)
		require.NotEqual(t, m.OriginalName, m.Filename)
		require.Greater(t, m.Size, int64(0))

		f, err := os.Open(m.Path)
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		f.Close()
		require.NoError(t, err)
		require.Equal(t, m.Size, int64(len(data)))
	}
}

func TestSaveAll_RejectsDisallowedExtension(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fhs := buildForm(t, map[string][]byte{"malware.exe": []byte("MZ")})

	_, err = s.SaveAll(fhs)
	require.ErrorIs(t, err, ErrDisallowedType)
}

func TestSaveAll_RejectsTooManyFiles(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	files := map[string][]byte{}
	for _, name := range []string{"a.csv", "b.csv", "c.csv", "d.csv", "e.csv", "f.csv"} {
		files[name] = []byte("x")
	}
	fhs := buildForm(t, files)

	_, err = s.SaveAll(fhs)
	require.ErrorIs(t, err, ErrTooManyFiles)
}

func TestSaveAll_ExtensionCheckIsCaseInsensitive(t *testing.T) {
	s, err := NewSaver(t.TempDir())
	require.NoError(t, err)

	fhs := buildForm(t, map[string][]byte{"Photo.JPG": []byte("jpegdata")})

	metas, err := s.SaveAll(fhs)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.Equal(t, "Photo.JPG", metas[0].OriginalName)
}
