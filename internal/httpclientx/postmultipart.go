package httpclientx

//
// postmultipart.go - POST a file using multipart/form-data and read a JSON response.
//

import (
	"bytes"
	"context"
	"mime/multipart"
)

// MultipartFile is a file to upload using [PostMultipart].
type MultipartFile struct {
	// FieldName is the MANDATORY form field name.
	FieldName string

	// FileName is the MANDATORY file name.
	FileName string

	// Content is the file content.
	Content []byte
}

// PostMultipart sends a POST request with a multipart/form-data body
// containing the given file and reads a JSON response.
func PostMultipart[Output any](ctx context.Context, config *Config, URL string, file *MultipartFile) (Output, error) {
	// serialize the request body
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(file.FieldName, file.FileName)
	if err != nil {
		return zeroValue[Output](), err
	}
	if _, err := part.Write(file.Content); err != nil {
		return zeroValue[Output](), err
	}
	if err := writer.Close(); err != nil {
		return zeroValue[Output](), err
	}

	config.Logger.Debugf("POST %s: uploading %s (%d bytes)", URL, file.FileName, len(file.Content))
	return postAndDecode[Output](ctx, config, URL, writer.FormDataContentType(), body.Bytes())
}
