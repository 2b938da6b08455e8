package render

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(lines int) Document {
	doc := Document{
		PrescriptionID: "rx-1",
		IssuedAt:       time.Date(2024, 6, 10, 11, 0, 0, 0, time.UTC),
		Patient:        Party{Name: "Asha Kulkarni", Phone: "9000000001", Gender: "female"},
		Doctor:         Party{Name: "Dr. Rao"},
		Diagnosis:      "Indigestion with bloating after meals",
	}
	for i := 0; i < lines; i++ {
		doc.Lines = append(doc.Lines, Line{
			Name:         "Triphala Churna",
			Dosage:       "3-5g",
			Duration:     14,
			Instructions: "at bedtime with warm water, " + strings.Repeat("long note ", 8),
			Qty:          5,
		})
	}
	return doc
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer("Ayur Clinic")

	for _, n := range []int{0, 1, 60} {
		out, err := r.Render(sampleDocument(n))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "lines=%d", n)
	}
}

func TestFileStore_SaveAndOpen(t *testing.T) {
	store := NewFileStore(t.TempDir())

	rel, err := store.Save(PrescriptionPath("rx-1"), []byte("%PDF-1.3 first"))
	require.NoError(t, err)
	assert.Equal(t, "prescriptions/Prescription_rx-1.pdf", rel)

	_, err = store.Save(rel, []byte("%PDF-1.3 second"))
	require.NoError(t, err)

	data, err := store.Open(rel)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 second", string(data))

	_, err = store.Open(PrescriptionPath("missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileStore_RejectsEscapingPaths(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, p := range []string{"", "../secret.pdf", "/etc/passwd", "prescriptions/../../x"} {
		_, err := store.Open(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}
