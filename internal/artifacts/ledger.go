package artifacts

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/topoprobe/campaign/internal/model"
)

// ErrInvalidArmName indicates that the arm name cannot be used as a file name.
var ErrInvalidArmName = errors.New("artifacts: invalid arm name")

// Ledger implements [model.Ledger] using one file per arm, named
// after the arm, containing one job ID per line.
type Ledger struct {
	// Dir is the MANDATORY directory containing the ledgers.
	Dir string
}

var _ model.Ledger = &Ledger{}

func (l *Ledger) path(arm string) (string, error) {
	if arm == "" || arm == "." || arm == ".." || strings.ContainsAny(arm, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidArmName, arm)
	}
	return filepath.Join(l.Dir, arm+".txt"), nil
}

// Append implements model.Ledger.
func (l *Ledger) Append(arm string, id model.JobID) error {
	path, err := l.path(arm)
	if err != nil {
		return err
	}
	fp, err := lockedfile.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(fp, "%s\n", id); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// Reset empties the ledger of the given arm, creating it if needed.
func (l *Ledger) Reset(arm string) error {
	path, err := l.path(arm)
	if err != nil {
		return err
	}
	return lockedfile.Write(path, bytes.NewReader(nil), 0644)
}

// Read returns the job IDs in the ledger of the given arm. A
// missing ledger is an empty ledger.
func (l *Ledger) Read(arm string) ([]model.JobID, error) {
	path, err := l.path(arm)
	if err != nil {
		return nil, err
	}
	data, err := lockedfile.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.JobID{}, nil
	}
	if err != nil {
		return nil, err
	}
	ids := []model.JobID{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ids = append(ids, model.JobID(line))
		}
	}
	return ids, scanner.Err()
}
