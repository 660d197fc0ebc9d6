// Package snapshot assembles the project snapshot document: a header, the rendered
// directory structure and one content block per included file.
package snapshot

import (
	"strings"
)

const (
	separatorWidth = 80

	bannerTitle             = "PROJECT SNAPSHOT"
	generatedLabel          = "Generated:  "
	rootPathLabel           = "Root Path:  "
	directoryStructureTitle = "DIRECTORY STRUCTURE"
	fileContentsTitle       = "FILE CONTENTS"
	fileLabel               = "File: "

	// BinaryPlaceholder replaces the content of binary files.
	BinaryPlaceholder = "[BINARY FILE - Content skipped]"
	// EmptyPlaceholder replaces the content of empty or whitespace-only files.
	EmptyPlaceholder = "[EMPTY FILE]"
	sizeLabel        = "Size: "

	readErrorPlaceholderFormat = "[ERROR READING FILE: %s]"
	treeErrorPlaceholderFormat = "[ERROR RENDERING DIRECTORY STRUCTURE: %s]"
)

var (
	// HeavySeparator is the 80 character "=" rule.
	HeavySeparator = strings.Repeat("=", separatorWidth)
	// LightSeparator is the 80 character "-" rule.
	LightSeparator = strings.Repeat("-", separatorWidth)
)

// BlockKind describes what a file block carries.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockEmpty
	BlockBinary
	BlockError
)

// FileBlock is the rendered section for one included file.
type FileBlock struct {
	RelativePath string
	Kind         BlockKind
	Body         string
}

// Document is an assembled snapshot held in memory until written.
type Document struct {
	GeneratedAt        string
	RootPath           string
	DirectoryStructure string
	Blocks             []FileBlock
}

// String serializes the document in its final text form.
func (document *Document) String() string {
	var builder strings.Builder
	document.writeHeader(&builder)
	document.writeDirectoryStructure(&builder)
	builder.WriteString(HeavySeparator + "\n")
	builder.WriteString(fileContentsTitle + "\n")
	builder.WriteString(HeavySeparator + "\n\n")
	for _, block := range document.Blocks {
		writeBlock(&builder, block)
	}
	return builder.String()
}

// Bytes returns the UTF-8 encoded document without a byte-order mark.
func (document *Document) Bytes() []byte {
	return []byte(document.String())
}

func (document *Document) writeHeader(builder *strings.Builder) {
	builder.WriteString(HeavySeparator + "\n")
	builder.WriteString(bannerTitle + "\n")
	builder.WriteString(HeavySeparator + "\n")
	builder.WriteString(generatedLabel + document.GeneratedAt + "\n")
	builder.WriteString(rootPathLabel + document.RootPath + "\n")
	builder.WriteString(HeavySeparator + "\n\n\n")
}

func (document *Document) writeDirectoryStructure(builder *strings.Builder) {
	builder.WriteString(directoryStructureTitle + "\n")
	builder.WriteString(LightSeparator + "\n\n")
	builder.WriteString(document.DirectoryStructure)
	builder.WriteString("\n\n")
}

func writeBlock(builder *strings.Builder, block FileBlock) {
	builder.WriteString(HeavySeparator + "\n")
	builder.WriteString(fileLabel + block.RelativePath + "\n")
	builder.WriteString(LightSeparator + "\n")
	builder.WriteString(block.Body)
	if !strings.HasSuffix(block.Body, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString("\n\n")
}
