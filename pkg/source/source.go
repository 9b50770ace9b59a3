package source

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/diffprep/internal/logging"
	"github.com/yaklabco/diffprep/pkg/charset"
	"github.com/yaklabco/diffprep/pkg/comment"
	"github.com/yaklabco/diffprep/pkg/config"
	"github.com/yaklabco/diffprep/pkg/fsutil"
	"github.com/yaklabco/diffprep/pkg/textdetect"
)

// Kind is the tagged content state of an ingested role.
type Kind int

const (
	// KindUnloaded means no data has been ingested.
	KindUnloaded Kind = iota
	// KindBinary means data was read but did not decode as text.
	KindBinary
	// KindText means a usable line index exists.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindText:
		return "text"
	default:
		return "unloaded"
	}
}

// aliasFromText is the synthetic alias for sources bound via BindToText.
const aliasFromText = "From Clipboard"

// SourceData is the ingestion facade for one input role (left, right,
// base). It owns the display and compare FileData pair, the staged temp file
// for clipboard or remote input, and the identity of whatever is bound.
//
// A SourceData is not safe for concurrent use; callers serialize loads per
// instance. Distinct instances share nothing but the Options bag and may be
// loaded in parallel.
type SourceData struct {
	opts *config.Options

	path          string // file path or URL; empty when bound to text
	alias         string
	codec         *charset.Codec
	tempInputFile string

	normalData FileData
	lmppData   FileData

	lastErrors []string

	newClassifier func() comment.Classifier
}

// New creates a SourceData bound to the shared options bag.
func New(opts *config.Options) *SourceData {
	if opts == nil {
		opts = config.NewOptions()
	}
	return &SourceData{
		opts:          opts,
		newClassifier: func() comment.Classifier { return comment.NewCStyleParser() },
	}
}

// SetClassifierFactory replaces the line classifier used during
// normalization. Each normalization pass gets a fresh classifier so
// multi-line comment state never leaks between passes.
func (sd *SourceData) SetClassifierFactory(f func() comment.Classifier) {
	if f != nil {
		sd.newClassifier = f
	}
}

// Reset clears all ingested data and removes the staged temp file.
func (sd *SourceData) Reset() {
	sd.codec = nil
	sd.path = ""
	sd.alias = ""
	sd.normalData.Reset()
	sd.lmppData.Reset()
	sd.lastErrors = nil
	sd.removeTempInput()
}

func (sd *SourceData) removeTempInput() {
	if sd.tempInputFile != "" {
		_ = fsutil.Remove(sd.tempInputFile)
		sd.tempInputFile = ""
	}
}

// BindToFile binds the role to a file path or URL. Nothing is read until
// LoadAndPreprocess. An empty name resets the role.
func (sd *SourceData) BindToFile(name string) {
	if name == "" {
		sd.Reset()
		return
	}
	sd.path = name
	sd.alias = ""
	sd.removeTempInput()
}

// BindToText stages in-memory text (clipboard content) into a fresh UTF-8
// temp file and binds the role to it.
func (sd *SourceData) BindToText(ctx context.Context, content string) error {
	if sd.tempInputFile == "" {
		p, err := fsutil.CreateTemp("diffprep-clipboard-*")
		if err != nil {
			return err
		}
		sd.tempInputFile = p
	}

	if err := fsutil.WriteFile(ctx, sd.tempInputFile, []byte(content), 0); err != nil {
		return fmt.Errorf("writing clipboard data to temp file failed: %w", err)
	}

	sd.alias = aliasFromText
	sd.path = ""
	return nil
}

// LoadAndPreprocess runs the full ingestion pipeline for the bound input and
// returns the collected diagnostics; an empty slice means success. Soft
// preprocessor failures disable the failing command on the shared options so
// it is not retried this session.
func (sd *SourceData) LoadAndPreprocess(ctx context.Context) []string {
	logger := logging.FromContext(ctx)

	fallback, err := charset.Resolve(sd.opts.Encoding)
	if err != nil {
		fallback = charset.UTF8()
	}

	out := sd.runPipeline(ctx, fallback)

	if out.DisablePreProcessor {
		logger.Warn("disabling preprocessor command after soft failure",
			logging.FieldCommand, sd.opts.PreProcessorCmd)
		sd.opts.PreProcessorCmd = ""
	}
	if out.DisableLineMatcher {
		logger.Warn("disabling line-matching preprocessor command after soft failure",
			logging.FieldCommand, sd.opts.LineMatchingPreProcessorCmd)
		sd.opts.LineMatchingPreProcessorCmd = ""
	}

	sd.lastErrors = out.Messages
	return out.Messages
}

// DisplayLineView returns the line index for rendering, or nil when no text
// was ingested.
func (sd *SourceData) DisplayLineView() *LineView {
	if sd.normalData.LineCount() == 0 && !sd.normalData.hasData() {
		return nil
	}
	return sd.normalData.LineView()
}

// CompareLineView returns the line index the comparison engine should use:
// the compare view when a line-matching stage or comment/case folding
// produced one, else the display view, else nil.
func (sd *SourceData) CompareLineView() *LineView {
	if sd.lmppData.hasData() {
		if v := sd.lmppData.LineView(); v != nil && v.Count() > 0 {
			return v
		}
	}
	return sd.DisplayLineView()
}

// IsBinaryIdenticalTo reports whether both sources are real existing files
// of equal size with byte-for-byte identical raw buffers. Two empty files
// compare equal without a byte comparison.
func (sd *SourceData) IsBinaryIdenticalTo(other *SourceData) bool {
	if other == nil {
		return false
	}
	if sd.IsFromBuffer() || other.IsFromBuffer() {
		return false
	}
	if !fsutil.Exists(sd.path) || !fsutil.Exists(other.path) {
		return false
	}
	if sd.SizeBytes() != other.SizeBytes() {
		return false
	}
	return sd.SizeBytes() == 0 || bytes.Equal(sd.normalData.Raw(), other.normalData.Raw())
}

// SaveNormalDataAs writes the display view's raw bytes to the named file.
func (sd *SourceData) SaveNormalDataAs(ctx context.Context, path string) error {
	return sd.normalData.writeFile(ctx, path)
}

// Kind returns the tagged content state of this role.
func (sd *SourceData) Kind() Kind {
	switch {
	case !sd.normalData.hasData():
		return KindUnloaded
	case !sd.normalData.IsText():
		return KindBinary
	default:
		return KindText
	}
}

// IsEmpty reports whether nothing is bound to this role.
func (sd *SourceData) IsEmpty() bool {
	return sd.path == "" && sd.tempInputFile == ""
}

// HasData reports whether raw data was ingested.
func (sd *SourceData) HasData() bool {
	return sd.normalData.hasData()
}

// IsValid reports that either nothing is bound or reading succeeded.
func (sd *SourceData) IsValid() bool {
	return sd.IsEmpty() || sd.HasData()
}

// IsText reports whether the ingested data decoded as text. Empty data
// counts as text.
func (sd *SourceData) IsText() bool {
	return sd.normalData.IsText()
}

// LikelyBinary is a display-layer hint: it inspects the raw bytes with
// content heuristics, independent of how far normalization got.
func (sd *SourceData) LikelyBinary() bool {
	return textdetect.IsBinary(sd.normalData.Raw())
}

// IsIncompleteConversion reports whether decoding met replacement
// characters.
func (sd *SourceData) IsIncompleteConversion() bool {
	return sd.normalData.IsIncompleteConversion()
}

// IsFromBuffer reports whether the input was bound via BindToText rather
// than a file.
func (sd *SourceData) IsFromBuffer() bool {
	return sd.path == ""
}

// FileName returns the bound path or URL, empty for text input.
func (sd *SourceData) FileName() string {
	return sd.path
}

// AliasName returns the display name: an explicit alias, the synthetic
// clipboard alias, or the pretty absolute path.
func (sd *SourceData) AliasName() string {
	if sd.alias != "" {
		return sd.alias
	}
	return sd.prettyPath()
}

// SetAliasName overrides the display name.
func (sd *SourceData) SetAliasName(name string) {
	sd.alias = name
}

func (sd *SourceData) prettyPath() string {
	if sd.path == "" {
		return ""
	}
	if fsutil.IsRemote(sd.path) {
		return sd.path
	}
	if abs, err := filepath.Abs(sd.path); err == nil {
		return abs
	}
	return sd.path
}

// Encoding returns the codec the last load decoded with, nil before any
// load.
func (sd *SourceData) Encoding() *charset.Codec {
	return sd.codec
}

// LineEndStyle returns the display view's detected terminator style.
func (sd *SourceData) LineEndStyle() LineEndStyle {
	return sd.normalData.LineEndStyle()
}

// SizeLines returns the display view's line count.
func (sd *SourceData) SizeLines() int {
	return sd.normalData.LineCount()
}

// SizeBytes returns the display view's raw byte size.
func (sd *SourceData) SizeBytes() int64 {
	return sd.normalData.Size()
}

// RawBytes returns the display view's raw buffer, nil before any load.
// The slice is owned by the receiver and must not be modified.
func (sd *SourceData) RawBytes() []byte {
	return sd.normalData.Raw()
}

// LastErrors returns the diagnostics from the most recent load.
func (sd *SourceData) LastErrors() []string {
	return sd.lastErrors
}

// Destroy releases all owned resources, including the staged temp file.
func (sd *SourceData) Destroy() {
	sd.Reset()
}
