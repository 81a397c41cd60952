// Package common contains shared constants and sentinel errors used across
// DataShare components.
package common

// Durable store keys. Each collection is persisted independently under its
// own key; the values are JSON text.
const (
	KeyCurrentUser   = "currentUser"
	KeyCompanyData   = "companyData"
	KeyUploadedFiles = "uploadedFiles"
)

// DemoUserAID is the RoleA identity that RoleB uploads and lookups address
// when no explicit target is given.
const DemoUserAID = "demo-user-a-id"
