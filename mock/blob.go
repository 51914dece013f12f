package mock

// Presigner returns the path prefixed with a fake host, or the overridden
// func results when set.
type Presigner struct {
	DownloadURLFn func(path string) (string, error)
	UploadURLFn   func(path string) (string, error)
}

func (p Presigner) DownloadURL(path string) (string, error) {
	if p.DownloadURLFn != nil {
		return p.DownloadURLFn(path)
	}
	if path == "" {
		return "", nil
	}
	return "https://blob.test/" + path, nil
}

func (p Presigner) UploadURL(path string) (string, error) {
	if p.UploadURLFn != nil {
		return p.UploadURLFn(path)
	}
	if path == "" {
		return "", nil
	}
	return "https://blob.test/upload/" + path, nil
}
