// Package ingest parses bulk review files and writes them into the entity
// store. The format is the SNAP fine-foods dump: one review per block of
// "namespace/key: value" lines, blocks separated by blank lines.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finefoods-recommender/internal/constants"
	"finefoods-recommender/internal/store"
	"finefoods-recommender/pkg/errors"
	"finefoods-recommender/pkg/logger"
)

const progressInterval = 10000

// Stats summarizes one load run.
type Stats struct {
	Lines   int
	Records int
}

// Loader feeds parsed review records into a store, one write per record,
// strictly sequentially.
type Loader struct {
	store store.Store
	// MaxRecords stops the scan after this many records; 0 means unlimited
	MaxRecords int
	logger     *zap.Logger
}

// NewLoader creates a loader writing into s
func NewLoader(s store.Store) *Loader {
	return &Loader{
		store:  s,
		logger: logger.Get(),
	}
}

// LoadFile ingests a single review file
func (l *Loader) LoadFile(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	stats, err := l.Load(ctx, f)
	if err != nil {
		return stats, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Info("Finished loading file",
		zap.String("file", path),
		zap.Int("records", stats.Records),
		zap.Int("lines", stats.Lines),
	)
	return stats, nil
}

// Load ingests review records from r. Each blank line completes a record:
// the user and product are found-or-created and one review edge is written
// carrying every record key verbatim plus a generated reviewId. A trailing
// record not followed by a blank line is flushed at EOF.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Stats, error) {
	stats := &Stats{}
	record := make(map[string]any)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			if len(record) > 0 {
				if err := l.writeRecord(ctx, record, stats.Lines); err != nil {
					return stats, err
				}
				stats.Records++
				record = make(map[string]any)
			}
			if l.MaxRecords > 0 && stats.Records >= l.MaxRecords {
				l.logger.Info("Record cap reached", zap.Int("records", stats.Records))
				return stats, nil
			}
		} else {
			parseLine(line, record)
		}

		if stats.Lines%progressInterval == 0 {
			l.logger.Info("Ingestion progress",
				zap.Int("records", stats.Records),
				zap.Int("lines", stats.Lines),
			)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}

	if len(record) > 0 {
		if err := l.writeRecord(ctx, record, stats.Lines); err != nil {
			return stats, err
		}
		stats.Records++
	}

	return stats, nil
}

// parseLine splits a "key: value" line into record. The key is the text
// after the last '/' (e.g. "review/score" becomes "score"). score parses as
// float, time as integer, everything else stays a string.
func parseLine(line string, record map[string]any) {
	parts := strings.SplitN(line, ": ", 2)
	if len(parts) != 2 {
		return
	}
	key := parts[0]
	if idx := strings.LastIndexByte(key, '/'); idx >= 0 {
		key = key[idx+1:]
	}
	value := parts[1]

	switch {
	case strings.EqualFold(key, constants.AttrScore):
		if score, err := strconv.ParseFloat(value, 64); err == nil {
			record[key] = score
			return
		}
		record[key] = value
	case strings.EqualFold(key, constants.AttrTime):
		if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
			record[key] = ts
			return
		}
		record[key] = value
	default:
		record[key] = value
	}
}

func (l *Loader) writeRecord(ctx context.Context, record map[string]any, line int) error {
	userID, _ := record[constants.AttrUserID].(string)
	productID, _ := record[constants.AttrProductID].(string)
	if userID == "" || productID == "" {
		return errors.NewIngestRecordInvalid(line, "missing userId or productId")
	}
	profileName, _ := record[constants.AttrProfileName].(string)

	user, err := l.store.CreateUser(ctx, userID, profileName)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", userID, err)
	}
	product, err := l.store.CreateProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to create product %s: %w", productID, err)
	}

	record[constants.AttrReviewID] = uuid.NewString()
	if _, err := l.store.CreateReview(ctx, user, product, record); err != nil {
		return fmt.Errorf("failed to create review for %s -> %s: %w", userID, productID, err)
	}
	return nil
}
