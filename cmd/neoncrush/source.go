package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"neoncrush/internal/config"
	"neoncrush/internal/fileutil"
	"neoncrush/internal/pipeline"
)

// readSource loads a file and classifies its media type. SVG is recognized by
// extension or by an <svg root in the first bytes; anything else is sniffed.
func readSource(path string) (pipeline.Source, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return pipeline.Source{}, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Source{
		Name:      filepath.Base(expanded),
		MediaType: sniffMediaType(expanded, data),
		Data:      data,
	}, nil
}

func sniffMediaType(path string, data []byte) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return pipeline.MediaTypeSVG
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
		return pipeline.MediaTypeSVG
	}
	mediaType := http.DetectContentType(data)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return mediaType
}

// writeOutput stores data under cfg.Paths.OutputDir, or at outFlag when set.
// An existing directory in outFlag receives the generated file name.
func writeOutput(cfg *config.Config, outFlag string, out *pipeline.Output) (string, error) {
	target := filepath.Join(cfg.Paths.OutputDir, out.FileName)
	if trimmed := strings.TrimSpace(outFlag); trimmed != "" {
		expanded, err := config.ExpandPath(trimmed)
		if err != nil {
			return "", err
		}
		target = expanded
		if info, err := os.Stat(expanded); err == nil && info.IsDir() {
			target = filepath.Join(expanded, out.FileName)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(target, out.Data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}
