package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Файловая система (1000-1999)
	FsInfo         Code = 1000
	FsAccess       Code = 1001
	FsWriteFailed  Code = 1002
	FsNotDirectory Code = 1003

	// Обнаружение файлов (2000-2999)
	DiscoverInfo       Code = 2000
	NoSources          Code = 2001
	SymlinkCycle       Code = 2002
	NoHeaders          Code = 2003
	SymlinkNotFollowed Code = 2004
	SymlinkAlias       Code = 2005

	// Конфигурация (3000-3999)
	ConfigInfo          Code = 3000
	ConfigParse         Code = 3001
	ConfigBadPattern    Code = 3002
	ConfigBadStandard   Code = 3003
	ConfigBadName       Code = 3004
	ConfigBadArtifact   Code = 3005
	ConfigBadOutputRoot Code = 3006
	ConfigBadRoot       Code = 3007
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	FsInfo:         "Filesystem information",
	FsAccess:       "Cannot access workspace",
	FsWriteFailed:  "Cannot write descriptor",
	FsNotDirectory: "Workspace root is not a directory",

	DiscoverInfo:       "Discovery information",
	NoSources:          "No source files found",
	SymlinkCycle:       "Symbolic link cycle skipped",
	NoHeaders:          "No header files found",
	SymlinkNotFollowed: "Symbolic link to directory not followed",
	SymlinkAlias:       "Directory alias skipped",

	ConfigInfo:          "Configuration information",
	ConfigParse:         "Cannot parse configuration file",
	ConfigBadPattern:    "Invalid exclusion pattern",
	ConfigBadStandard:   "Unsupported language standard",
	ConfigBadName:       "Invalid project name",
	ConfigBadArtifact:   "Invalid clean artifact name",
	ConfigBadOutputRoot: "Invalid output root",
	ConfigBadRoot:       "Invalid workspace root",
}

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DSC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
