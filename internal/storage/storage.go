package storage

import (
	"io"
	"mime/multipart"
)

// FileInfo describes an uploaded recording file.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage keeps uploaded recording videos. SaveFile returns the stored
// name, which callers persist on the recording and pass back to the other
// methods. FilePath exposes a real filesystem path because the analysis
// pipeline hands the file to ffmpeg.
type Storage interface {
	SaveFile(file multipart.File, info FileInfo) (string, error)
	OpenFile(name string) (io.ReadSeekCloser, error)
	FilePath(name string) (string, error)
	DeleteFile(name string) error
}
