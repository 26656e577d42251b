package fileparse

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	"golift.io/xtractr"
)

const maxArchiveDepth = 5

// extractArchive unpacks an archive attachment to a temp directory and
// flattens the text of every contained file it can handle, recursing into
// nested archives up to maxArchiveDepth. Files it cannot handle are skipped
// with a note so the rest of the attachment still gets scanned.
func extractArchive(archiveName string, content []byte, depth int) (string, error) {
	if depth > maxArchiveDepth {
		log.Debug().Str("file", archiveName).Int("depth", depth).Msg("Max archive recursion depth reached, skipping further extraction")
		return "", nil
	}

	fileType, err := filetype.Get(content)
	if err != nil {
		return "", fmt.Errorf("determining archive type: %w", err)
	}

	tmpArchive, err := os.CreateTemp("", "mailguard-attachment-*."+fileType.Extension)
	if err != nil {
		return "", fmt.Errorf("creating archive temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpArchive.Name()) }()

	if err := os.WriteFile(tmpArchive.Name(), content, 0o600); err != nil {
		return "", fmt.Errorf("writing archive to disk: %w", err)
	}

	outputDir, err := os.MkdirTemp("", "mailguard-attachment-out-")
	if err != nil {
		return "", fmt.Errorf("creating archive temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(outputDir) }()

	x := &xtractr.XFile{
		FilePath:  tmpArchive.Name(),
		OutputDir: outputDir,
		FileMode:  0o600,
		DirMode:   0o700,
	}

	_, files, _, err := xtractr.ExtractFile(x)
	if err != nil || files == nil {
		return "", fmt.Errorf("extracting archive %s: %w", archiveName, err)
	}

	var texts []string
	for _, extracted := range files {
		info, err := os.Stat(extracted)
		if err != nil || info.IsDir() {
			continue
		}

		// #nosec G304 - extracted file paths come from xtractr's temp output directory
		fileBytes, err := os.ReadFile(extracted)
		if err != nil {
			log.Debug().Err(err).Str("file", extracted).Msg("Cannot read extracted archive member")
			continue
		}

		memberName := path.Base(extracted)
		var text string
		if filetype.IsArchive(fileBytes) {
			text, err = extractArchive(memberName, fileBytes, depth+1)
		} else if kind, _ := filetype.Match(fileBytes); kind == filetype.Unknown {
			// No recognizable binary signature: treat as text, the common
			// case for config files and dumps inside archives.
			text = decodeText(fileBytes)
		} else {
			text, err = Extract(memberName, fileBytes)
		}
		if err != nil {
			texts = append(texts, fmt.Sprintf("[file %s skipped: %v]", memberName, err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			texts = append(texts, "[file: "+memberName+"]\n"+text)
		}
	}

	return strings.Join(texts, "\n\n"), nil
}
