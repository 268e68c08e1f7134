package measurementapi

//
// targets.go - POST /targets/
//

import (
	"context"
	"fmt"
	"strings"

	"github.com/topoprobe/campaign/internal/httpclientx"
	"github.com/topoprobe/campaign/internal/urlx"
)

// TargetLine is a line of a target list.
type TargetLine struct {
	Prefix   string
	Protocol string
	MinTTL   int
	MaxTTL   int
}

// String returns the CSV representation expected by the platform.
func (tl TargetLine) String() string {
	return fmt.Sprintf("%s,%s,%d,%d", tl.Prefix, tl.Protocol, tl.MinTTL, tl.MaxTTL)
}

// FormatTargetList returns the target list file content.
func FormatTargetList(lines []TargetLine) []byte {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line.String())
		builder.WriteString("\n")
	}
	return []byte(builder.String())
}

// TargetList is the response of the targets upload API.
type TargetList struct {
	Key string `json:"key"`
}

// UploadTargets uploads a target list with the given key.
func (c *Client) UploadTargets(ctx context.Context, key string, content []byte) (*TargetList, error) {
	URL, err := urlx.ResolveReference(c.BaseURL, "/targets/", "")
	if err != nil {
		return nil, err
	}
	file := &httpclientx.MultipartFile{
		FieldName: "target_file",
		FileName:  key,
		Content:   content,
	}
	return httpclientx.PostMultipart[*TargetList](ctx, c.newConfig(), URL, file)
}
