package codec

import (
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/muhammadchandra19/orderflow/pkg/errors"
	feedv1 "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/feed/v1"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode decodes one feed line into a record.
func Decode(line string) (feedv1.Record, error) {
	var record feedv1.Record

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return record, errors.NewErrorDetails("feed line is empty", string(errors.FeedDecodeError), "line")
	}

	if err := json.UnmarshalFromString(trimmed, &record); err != nil {
		return feedv1.Record{}, errors.NewErrorDetails("failed to decode feed line: "+err.Error(), string(errors.FeedDecodeError), "line")
	}

	return record, nil
}

// Encode encodes a record as a single feed line without a trailing newline.
func Encode(record feedv1.Record) (string, error) {
	line, err := json.MarshalToString(record)
	if err != nil {
		return "", errors.TracerFromError(err)
	}
	return line, nil
}

// Instruments returns the sorted set of instrument ids that carry a trade
// entry in at least one decodable line.
func Instruments(lines []string) []string {
	seen := make(map[string]struct{})
	for _, line := range lines {
		record, err := Decode(line)
		if err != nil {
			continue
		}
		for id := range record.Feeds {
			if record.Has(id) {
				seen[id] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
