package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/diffprep/internal/logging"
	"github.com/yaklabco/diffprep/pkg/charset"
	"github.com/yaklabco/diffprep/pkg/fsutil"
	"github.com/yaklabco/diffprep/pkg/procrun"
)

// Outcome is the result of one ingest attempt. Messages are plain
// diagnostics surfaced to the caller; an empty list means full success. The
// disable flags report that a preprocessor command failed softly and should
// not be retried this session — the caller applies them to the shared
// options so the effect is observable instead of a hidden mutation.
type Outcome struct {
	Messages []string

	DisablePreProcessor bool
	DisableLineMatcher  bool
}

func (o *Outcome) addf(format string, args ...any) {
	o.Messages = append(o.Messages, fmt.Sprintf(format, args...))
}

// runPipeline executes the full ingestion pipeline for the bound input:
// staging, encoding detection, the optional preprocessor stages, both
// normalization passes, and the view reconciliation. It mutates the two
// FileData instances owned by the facade and returns diagnostics.
func (sd *SourceData) runPipeline(ctx context.Context, fallback *charset.Codec) Outcome {
	var out Outcome
	logger := logging.FromContext(ctx)
	opts := sd.opts

	if sd.path != "" && fsutil.Exists(sd.path) && !fsutil.IsRegularFile(sd.path) {
		out.addf("%s is not a normal file.", sd.prettyPath())
		return out
	}

	fromText := sd.path == ""

	// Resolve the byte source and the working codec.
	var fileNameIn1 string
	if !fromText {
		if fsutil.IsRemote(sd.path) {
			if sd.tempInputFile == "" {
				staged, err := fsutil.CreateLocalCopy(ctx, sd.path)
				if err != nil {
					out.addf("Cannot stage %s locally: %v", sd.path, err)
					return out
				}
				sd.tempInputFile = staged
			}
			fileNameIn1 = sd.tempInputFile
		} else {
			fileNameIn1 = sd.path
		}

		if opts.AutoDetectUnicode {
			sd.codec = charset.DetectFromFile(fileNameIn1, fallback)
		} else {
			sd.codec = fallback
		}
	} else {
		// In-memory text was staged to a temp file at assignment time
		// and is always UTF-8.
		fileNameIn1 = sd.tempInputFile
		sd.codec = charset.UTF8()
	}

	codec1 := sd.codec
	codec2 := sd.codec

	sd.normalData.Reset()
	sd.lmppData.Reset()

	if !fsutil.Exists(fileNameIn1) {
		// Nonexistent input: nothing to ingest, nothing to report.
		return out
	}
	fileInSize := fsutil.SizeForReading(fileNameIn1)

	// Stage temp files live exactly as long as this load.
	var stageTemps []string
	defer func() {
		for _, p := range stageTemps {
			if err := fsutil.Remove(p); err != nil {
				logger.Debug("stage temp cleanup failed",
					logging.FieldTempFile, p, logging.FieldError, err)
			}
		}
	}()
	newStageTemp := func() (string, bool) {
		p, err := fsutil.CreateTemp("diffprep-stage-*")
		if err != nil {
			out.addf("Cannot create temporary file: %v", err)
			return "", false
		}
		stageTemps = append(stageTemps, p)
		return p, true
	}

	ppCodec := sd.preprocessorCodec(&out)

	// Stage 1: general preprocessor.
	var fileNameOut1 string
	if opts.PreProcessorCmd == "" {
		if err := sd.normalData.readFile(ctx, fileNameIn1); err != nil {
			out.addf("%v", err)
			return out
		}
	} else {
		fileNameInPP := fileNameIn1
		if ppCodec != nil && !codec1.Equal(ppCodec) {
			// Convert to the encoding the preprocessor expects.
			tmp, ok := newStageTemp()
			if !ok {
				return out
			}
			if err := charset.ConvertFile(fileNameIn1, sd.codec, tmp, ppCodec); err == nil {
				fileNameInPP = tmp
				codec1 = ppCodec
			} else {
				logger.Debug("preprocessor input conversion failed",
					logging.FieldError, err)
			}
		}

		tmpOut, ok := newStageTemp()
		if !ok {
			return out
		}
		fileNameOut1 = tmpOut

		logger.Debug("running preprocessor",
			logging.FieldCommand, opts.PreProcessorCmd,
			logging.FieldInput, fileNameInPP,
			logging.FieldOutput, fileNameOut1)

		runErr := procrun.Run(ctx, opts.PreProcessorCmd, fileNameInPP, fileNameOut1)
		if runErr == nil {
			runErr = sd.normalData.readFile(ctx, fileNameOut1)
		}

		if fileInSize > 0 && (runErr != nil || sd.normalData.Size() == 0) {
			// Soft failure: fall back to the unmodified input so a bad
			// external tool cannot wipe out content.
			if err := sd.normalData.readFile(ctx, fileNameIn1); err != nil {
				out.addf("%v", err)
				out.addf("    Temp file is: %s", fileNameIn1)
				return out
			}
			msg := fmt.Sprintf("Preprocessing possibly failed. Check this command:\n\n  %s"+
				"\n\nThe preprocessing command will be disabled now.", opts.PreProcessorCmd)
			if runErr != nil {
				msg += fmt.Sprintf("\n(%v)", runErr)
			}
			out.Messages = append(out.Messages, msg)
			out.DisablePreProcessor = true

			fileNameOut1 = ""
			codec1 = sd.codec
		}
	}

	if err := sd.normalData.normalize(codec1, normalizeOptions{classifier: sd.newClassifier()}); err != nil {
		out.Messages = append(out.Messages, normalizeDiagnostic(err, fileNameIn1))
		return out
	}

	// Non-text data: no further stage runs, the facade reports binary.
	if !sd.normalData.IsText() {
		return out
	}

	// Stage 2: line-matching preprocessor.
	if opts.LineMatchingPreProcessorCmd != "" {
		fileNameIn2 := fileNameOut1
		if fileNameIn2 == "" {
			fileNameIn2 = fileNameIn1
		}
		codec2 = codec1

		fileNameInPP := fileNameIn2
		if ppCodec != nil && !codec2.Equal(ppCodec) {
			tmp, ok := newStageTemp()
			if !ok {
				return out
			}
			if err := charset.ConvertFile(fileNameIn2, codec1, tmp, ppCodec); err == nil {
				fileNameInPP = tmp
				codec2 = ppCodec
			} else {
				logger.Debug("line-matcher input conversion failed",
					logging.FieldError, err)
			}
		}

		tmpOut, ok := newStageTemp()
		if !ok {
			return out
		}

		logger.Debug("running line-matching preprocessor",
			logging.FieldCommand, opts.LineMatchingPreProcessorCmd,
			logging.FieldInput, fileNameInPP,
			logging.FieldOutput, tmpOut)

		runErr := procrun.Run(ctx, opts.LineMatchingPreProcessorCmd, fileNameInPP, tmpOut)
		if runErr == nil {
			runErr = sd.lmppData.readFile(ctx, tmpOut)
		}

		if fsutil.SizeForReading(fileNameIn2) > 0 && (runErr != nil || sd.lmppData.Size() == 0) {
			msg := fmt.Sprintf("The line-matching-preprocessing possibly failed. Check this command:\n\n  %s"+
				"\n\nThe line-matching-preprocessing command will be disabled now.",
				opts.LineMatchingPreProcessorCmd)
			if runErr != nil {
				msg += fmt.Sprintf("\n(%v)", runErr)
			}
			out.Messages = append(out.Messages, msg)
			out.DisableLineMatcher = true

			if err := sd.lmppData.readFile(ctx, fileNameIn2); err != nil {
				out.addf("Failed to read file: %s", fileNameIn2)
				return out
			}
			codec2 = codec1
		}
	} else if opts.NeedsCompareCopy() {
		// The compare view gets rewritten per line, so it must own its
		// bytes: a copy, never an alias of the display buffer.
		sd.lmppData.copyBufFrom(&sd.normalData)
	}

	if err := sd.lmppData.normalize(codec2, normalizeOptions{
		stripComments: opts.IgnoreComments,
		foldCase:      opts.IgnoreCase,
		stripNumbers:  opts.IgnoreNumbers,
		classifier:    sd.newClassifier(),
	}); err != nil {
		out.Messages = append(out.Messages, normalizeDiagnostic(err, fileNameIn1))
		return out
	}

	// Reconciliation: a filter can delete lines. Pad the compare view with
	// end-of-buffer records so every display index has a compare partner.
	if sd.lmppData.hasData() && sd.lmppData.LineCount() < sd.normalData.LineCount() {
		sd.lmppData.padLinesTo(sd.normalData.LineCount())
	}

	// Comment-flag propagation: comparison decisions are made on the
	// compare view but must be visible on the rendered display view.
	if opts.IgnoreComments && sd.HasData() {
		n := min(sd.normalData.LineCount(), sd.lmppData.LineCount())
		for i := 0; i < n; i++ {
			sd.normalData.records[i].PureComment = sd.lmppData.records[i].PureComment
		}
	}

	return out
}

// normalizeDiagnostic maps a normalization failure to its user-facing
// message.
func normalizeDiagnostic(err error, fileName string) string {
	if errors.Is(err, ErrTooLarge) {
		return fmt.Sprintf("File %s too large to process. Skipping.", fileName)
	}
	return fmt.Sprintf("Cannot decode %s: %v", fileName, err)
}

// preprocessorCodec resolves the codec preprocessor commands expect on their
// stdin, or nil when none is configured or it cannot be resolved.
func (sd *SourceData) preprocessorCodec(out *Outcome) *charset.Codec {
	name := sd.opts.PreProcessorEncoding
	if name == "" {
		return nil
	}
	c, err := charset.Resolve(name)
	if err != nil {
		if sd.opts.PreProcessorCmd != "" || sd.opts.LineMatchingPreProcessorCmd != "" {
			out.addf("Unknown preprocessor encoding %q, using the file encoding instead.", name)
		}
		return nil
	}
	return c
}
