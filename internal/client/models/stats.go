package models

// Stats summarises one identity's activity for the dashboard.
type Stats struct {
	DataEntries   int
	FilesUploaded int
	FilesReceived int
	LatestData    *MetricSubmission
	LatestFile    *FileReference
}
