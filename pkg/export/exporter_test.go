package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() Document {
	return Document{
		Title:     "LAPORAN ABSENSI DIGITAL SISWA TK",
		Subtitles: []string{"KELAS: A1", "Tanggal: 2024-05-01"},
		Headers:   []string{"No", "NIS", "Nama", "Status", "Keterangan"},
		Rows: [][]string{
			{"1", "001", "Budi", "Hadir", ""},
			{"2", "002", "Sari", "Sakit", "demam"},
		},
		Signatures: &Signatures{
			Left:  SignatureBlock{Heading: []string{"Mengetahui,", "Kepala Sekolah"}},
			Right: SignatureBlock{Heading: []string{"Kediri, 2024-05-01", "Wali Kelas"}, Name: "Bu Ani", NIP: "1987"},
		},
	}
}

func TestCSVExporterUsesSemicolon(t *testing.T) {
	out, err := NewCSVExporter(0).Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "No;NIS;Nama;Status;Keterangan\n1;001;Budi;Hadir;\n2;002;Sari;Sakit;demam\n", string(out))
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	doc := Document{Headers: []string{"a", "b"}, Rows: [][]string{{"x"}}}
	out, err := NewCSVExporter(',').Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\nx,\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter(0).Render(Document{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewXLSXExporter().Render(Document{})
	assert.Error(t, err)
}

func TestPDFExporterRenders(t *testing.T) {
	doc := sampleDocument()
	doc.Landscape = true
	out, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterWritesTable(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "LAPORAN ABSENSI DIGITAL SISWA TK", title)

	header, err := f.GetCellValue(xlsxSheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "Nama", header)

	note, err := f.GetCellValue(xlsxSheet, "E7")
	require.NoError(t, err)
	assert.Equal(t, "demam", note)
}

func TestSignatureBlockPlaceholders(t *testing.T) {
	b := SignatureBlock{}
	assert.Equal(t, "( "+NamePlaceholder+" )", b.DisplayName())
	assert.Equal(t, "NIP. "+NIPPlaceholder, b.DisplayNIP())
}
