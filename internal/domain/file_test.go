package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFileName(t *testing.T) {
	tests := []struct {
		fileName string
		want     FileKind
	}{
		{"scan.png", FileKindImage},
		{"scan.jpg", FileKindImage},
		{"scan.jpeg", FileKindImage},
		{"scan.bmp", FileKindImage},
		{"SCAN.PNG", FileKindImage},
		{"Photo.JpEg", FileKindImage},
		{"report.pdf", FileKindPDF},
		{"REPORT.PDF", FileKindPDF},
		{"archive.tar.pdf", FileKindPDF},
		{"notes.txt", FileKindUnsupported},
		{"data.xml", FileKindUnsupported},
		{"image.webp", FileKindUnsupported},
		{"pdf", FileKindUnsupported},
		{"png.", FileKindUnsupported},
		{"", FileKindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFileName(tt.fileName))
		})
	}
}
