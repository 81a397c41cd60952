package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/datashare/internal/client/models"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n bytes in the largest unit that keeps the value at
// or above 1, with at most two decimals and no trailing zeros.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i, div := 0, int64(1)
	for i < len(sizeUnits)-1 && n >= div*1024 {
		div *= 1024
		i++
	}
	v := math.Round(float64(n)/float64(div)*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// FormatPercentage renders a percentage with two decimals.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatMetric(m models.MetricSubmission) string {
	return fmt.Sprintf("%s  %-24s users=%-6d products=%-6d %s",
		formatTime(m.CreatedAt), m.CompanyName, m.NumberOfUsers, m.NumberOfProducts, FormatPercentage(m.Percentage))
}

func formatFile(f models.FileReference) string {
	return fmt.Sprintf("%s  %-24s %10s  from=%s to=%s",
		formatTime(f.CreatedAt), f.FileName, FormatFileSize(f.FileSize), f.UploaderID, f.TargetID)
}

func formatStats(s *models.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Data entries:   %d\n", s.DataEntries)
	fmt.Fprintf(&b, "Files uploaded: %d\n", s.FilesUploaded)
	fmt.Fprintf(&b, "Files received: %d", s.FilesReceived)
	if s.LatestData != nil {
		fmt.Fprintf(&b, "\nLatest data:    %s", formatMetric(*s.LatestData))
	}
	if s.LatestFile != nil {
		fmt.Fprintf(&b, "\nLatest file:    %s", formatFile(*s.LatestFile))
	}
	return b.String()
}
