package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	d := Dataset{Headers: []string{"Request ID", "Mentee", "Status"}}
	d.AddRow(map[string]string{"Request ID": "req-1", "Mentee": "Jordan", "Status": "approved"})
	d.AddRow(map[string]string{"Request ID": "req-2", "Status": "pending"})
	return d
}

func TestCSVExporterRender(t *testing.T) {
	content, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Request ID,Mentee,Status", lines[0])
	assert.Equal(t, "req-1,Jordan,approved", lines[1])
	// Missing header values render as empty cells, not shifted columns.
	assert.Equal(t, "req-2,,pending", lines[2])
}

func TestCSVExporterQuotesSpecialValues(t *testing.T) {
	d := Dataset{Headers: []string{"Message"}}
	d.AddRow(map[string]string{"Message": `help me with "Go, please"`})

	content, err := NewCSVExporter().Render(d)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"help me with ""Go, please"""`)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	content, err := NewPDFExporter().Render(sampleDataset(), "Mentorship Requests")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestPDFExporterWideDataset(t *testing.T) {
	d := Dataset{Headers: []string{"A", "B", "C", "D", "E", "F", "G"}}
	d.AddRow(map[string]string{"A": "1"})

	content, err := NewPDFExporter().Render(d, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "title")
	assert.Error(t, err)
}
