package models

import (
	"errors"
	"time"
)

// Upload is a handle to bytes the uploader selected. Ref points at a staged,
// process-local copy and is not valid after a restart.
type Upload interface {
	Name() string
	Size() int64
	Ref() string
}

// FileReference is the metadata kept for one uploaded image. The bytes
// themselves are not persisted.
type FileReference struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	// BlobRef is the ephemeral reference to the staged bytes.
	BlobRef  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	// TargetID is the identity the file is meant for.
	TargetID string `json:"userId"`
	// UploaderID is the identity that uploaded it.
	UploaderID string    `json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (f FileReference) Validate() error {
	switch {
	case f.ID == "":
		return errors.New("file reference: empty id")
	case f.FileName == "":
		return errors.New("file reference: empty file name")
	case f.FileSize < 0:
		return errors.New("file reference: negative size")
	case f.CreatedAt.IsZero():
		return errors.New("file reference: missing createdAt")
	}
	return nil
}

func (f FileReference) Timestamp() time.Time { return f.CreatedAt }
