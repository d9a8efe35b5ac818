package holderloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"supply_api/internal/app/port"
	"supply_api/internal/domain/entity"
)

// HolderFileLoader implements port.HolderProvider by reading one address per line from a file.
// Blank lines are ignored and '#' starts a comment.
type HolderFileLoader struct {
	filePath string
	logger   port.Logger
}

// NewHolderFileLoader creates a new HolderFileLoader. An empty path yields no holders.
func NewHolderFileLoader(filePath string, logger port.Logger) *HolderFileLoader {
	return &HolderFileLoader{filePath: filePath, logger: logger}
}

var _ port.HolderProvider = (*HolderFileLoader)(nil)

// GetHolders reads the holder addresses. A malformed line is kept as an invalid reference so that
// circulating-supply requests fail instead of silently over-reporting.
func (l *HolderFileLoader) GetHolders() ([]entity.AddressRef, error) {
	if l.filePath == "" {
		return nil, nil
	}
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holder file %s: %w", l.filePath, err)
	}
	defer file.Close()

	var holders []entity.AddressRef
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		ref := entity.NewAddressRef(fmt.Sprintf("excluded holder (line %d)", lineNum), line)
		if ref.Err() != nil && l.logger != nil {
			l.logger.Error("Invalid holder address in file", "file", l.filePath, "line_number", lineNum, "address", line)
		}
		holders = append(holders, ref)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning holder file %s: %w", l.filePath, err)
	}

	if l.logger != nil {
		l.logger.Info("Excluded holders loaded from file", "count", len(holders), "path", l.filePath)
	}
	return holders, nil
}
