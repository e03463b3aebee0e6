package validate

const (
	// DefaultMaxFileSize applies when no upload cap is configured.
	DefaultMaxFileSize int64 = 10 * 1024 * 1024

	MaxBatchFiles int = 10
)

var (
	AllowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	AllowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
)
