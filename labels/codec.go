package labels

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/officekit/intent/errors"
)

// MappingFilename is the label mapping file stored alongside encoder weights.
// A checkpoint must always be loaded together with this file: regenerating the
// mapping independently silently permutes the ids.
const MappingFilename = "label_mapping.json"

// EncodingError indicates input that cannot be encoded: a label outside the
// known intent set, or malformed text. It is fatal and never retried; bad data
// must be fixed upstream.
type EncodingError struct {
	Index  int
	Text   string
	Label  string
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Label != "" {
		return "encoding error at example " + strconv.Itoa(e.Index) + ": label '" + e.Label + "': " + e.Reason
	}
	return "encoding error at example " + strconv.Itoa(e.Index) + ": " + e.Reason
}

// Codec is a bidirectional mapping between intent names and dense integer ids.
// The id of an intent is its position in the canonical ordering the codec was
// built with. Immutable once built.
type Codec struct {
	names []string
	ids   map[string]int
}

// NewCodec builds a codec from the canonical intent ordering.
func NewCodec(names []string) (*Codec, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("intent set is empty")
	}
	ids := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, errors.Errorf("empty intent name at position %d", i)
		}
		if _, dup := ids[name]; dup {
			return nil, errors.Errorf("duplicate intent name '%s'", name)
		}
		ids[name] = i
	}
	return &Codec{names: append([]string(nil), names...), ids: ids}, nil
}

// ID returns the dense id for an intent name.
func (c *Codec) ID(name string) (int, bool) {
	id, ok := c.ids[name]
	return id, ok
}

// Name returns the intent name for a dense id.
func (c *Codec) Name(id int) (string, bool) {
	if id < 0 || id >= len(c.names) {
		return "", false
	}
	return c.names[id], true
}

// Names returns a copy of the canonical intent ordering.
func (c *Codec) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of intents.
func (c *Codec) Len() int {
	return len(c.names)
}

// mapping is the on-disk layout of the label mapping file.
type mapping struct {
	IntentLabels []string          `json:"intent_labels"`
	LabelToID    map[string]int    `json:"label_to_id"`
	IDToLabel    map[string]string `json:"id_to_label"`
}

// Save writes the label mapping file into dir.
func (c *Codec) Save(dir string) error {
	m := mapping{
		IntentLabels: c.names,
		LabelToID:    make(map[string]int, len(c.names)),
		IDToLabel:    make(map[string]string, len(c.names)),
	}
	for i, name := range c.names {
		m.LabelToID[name] = i
		m.IDToLabel[strconv.Itoa(i)] = name
	}
	buf, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "error marshaling label mapping")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "error creating directory '%s'", dir)
	}
	path := filepath.Join(dir, MappingFilename)
	if err := ioutil.WriteFile(path, buf, 0644); err != nil {
		return errors.Wrapf(err, "error writing '%s'", path)
	}
	return nil
}

// Load reads the label mapping file from dir and rebuilds the codec, checking
// that the three persisted views of the mapping agree with each other.
func Load(dir string) (*Codec, error) {
	path := filepath.Join(dir, MappingFilename)
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading '%s'", path)
	}
	var m mapping
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, errors.Wrapf(err, "error unmarshaling '%s'", path)
	}

	codec, err := NewCodec(m.IntentLabels)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid label mapping in '%s'", path)
	}
	for name, id := range m.LabelToID {
		if got, ok := codec.ID(name); !ok || got != id {
			return nil, errors.Errorf("label mapping '%s' is inconsistent: label_to_id['%s']=%d disagrees with intent_labels", path, name, id)
		}
	}
	for idStr, name := range m.IDToLabel {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, errors.Errorf("label mapping '%s' has non-integer id key '%s'", path, idStr)
		}
		if got, ok := codec.Name(id); !ok || got != name {
			return nil, errors.Errorf("label mapping '%s' is inconsistent: id_to_label[%d]='%s' disagrees with intent_labels", path, id, name)
		}
	}
	return codec, nil
}
