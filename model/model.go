// Package model defines the data types shared by every stage of a scan:
// the walker's file list, each language analyzer's per-file findings, and
// the assembled snapshot that queries read back.
package model

// Language identifies the source language (or template dialect) a file was
// analyzed as.
type Language string

const (
	LangTS      Language = "ts"
	LangTSX     Language = "tsx"
	LangJS      Language = "js"
	LangJSX     Language = "jsx"
	LangRust    Language = "rs"
	LangPython  Language = "py"
	LangGo      Language = "go"
	LangCSS     Language = "css"
	LangSvelte  Language = "svelte"
	LangVue     Language = "vue"
	LangOther   Language = "other"
)

// FileKind classifies a file's role, independent of its language.
type FileKind string

const (
	KindSource    FileKind = "source"
	KindTest      FileKind = "test"
	KindGenerated FileKind = "generated"
	KindConfig    FileKind = "config"
)

// ImportKind distinguishes how a dependency was referenced.
type ImportKind string

const (
	ImportStatic     ImportKind = "import"
	ImportSideEffect ImportKind = "side_effect"
	ImportDynamic    ImportKind = "dynamic"
	ImportTypeOnly   ImportKind = "typeonly"
)

// EdgeLabel is the kind tag carried by a GraphEdge.
type EdgeLabel string

const (
	EdgeImport        EdgeLabel = "import"
	EdgeDynamic       EdgeLabel = "dynamic"
	EdgeReexport      EdgeLabel = "reexport"
	EdgeReexportStar  EdgeLabel = "reexport_star"
	EdgeTypeOnly      EdgeLabel = "typeonly"
)

// ImportedSymbol is one named binding brought in by an ImportEntry.
type ImportedSymbol struct {
	Name      string `json:"name"`
	Alias     string `json:"alias,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// ImportEntry records one import statement (or call) found in a file.
type ImportEntry struct {
	Source       string           `json:"source"`
	Kind         ImportKind       `json:"kind"`
	ResolvedPath string           `json:"resolved_path,omitempty"`
	IsBare       bool             `json:"is_bare"`
	Symbols      []ImportedSymbol `json:"symbols,omitempty"`
	IsTypeOnly   bool             `json:"is_type_only,omitempty"`
	IsLazy       bool             `json:"is_lazy,omitempty"`
	Line         int              `json:"line"`
}

// ReexportKind distinguishes a star re-export from a named one.
type ReexportKind string

const (
	ReexportStarKind  ReexportKind = "star"
	ReexportNamedKind ReexportKind = "named"
)

// ReexportEntry records `export * from` / `export {a, b} from` style statements.
type ReexportEntry struct {
	Source       string       `json:"source"`
	Kind         ReexportKind `json:"kind"`
	Names        []string     `json:"names,omitempty"`
	ResolvedPath string       `json:"resolved_path,omitempty"`
	Line         int          `json:"line"`
}

// ExportKind enumerates the declaration shape an exported symbol had.
type ExportKind string

const (
	ExportFunction  ExportKind = "function"
	ExportConst     ExportKind = "const"
	ExportLet       ExportKind = "let"
	ExportVar       ExportKind = "var"
	ExportClass     ExportKind = "class"
	ExportInterface ExportKind = "interface"
	ExportType      ExportKind = "type"
	ExportEnum      ExportKind = "enum"
	ExportDefault   ExportKind = "default"
	ExportNamed     ExportKind = "named"
	ExportDecl      ExportKind = "decl"
	ExportReexport  ExportKind = "reexport"
	ExportImpl      ExportKind = "impl"
)

// Visibility captures Rust-style pub/pub(crate)/private visibility; an
// analyzer that does not track visibility (TS/JS) leaves it empty.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Param is one function/method parameter, with an optional surface-level
// type annotation captured verbatim (never semantically resolved).
type Param struct {
	Name           string `json:"name"`
	TypeAnnotation string `json:"type_annotation,omitempty"`
}

// ExportSymbol is one top-level declaration a file makes visible to importers.
type ExportSymbol struct {
	Name       string     `json:"name"`
	Kind       ExportKind `json:"kind"`
	Line       int        `json:"line,omitempty"`
	Params     []Param    `json:"params,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
}

// CommandRef is a detected Tauri-style `invoke("name")` call site or
// `#[tauri::command]` handler declaration.
type CommandRef struct {
	Name         string  `json:"name"`
	ExposedName  string  `json:"exposed_name,omitempty"`
	Line         int     `json:"line"`
	GenericType  string  `json:"generic_type,omitempty"`
	Payload      string  `json:"payload,omitempty"`
	PluginName   string  `json:"plugin_name,omitempty"`
}

// CommandPayloadCasing flags a camelCase payload key passed to a
// snake_case-named command.
type CommandPayloadCasing struct {
	Command string `json:"command"`
	Key     string `json:"key"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
}

// EventRef is a detected emit/listen call site.
type EventRef struct {
	RawName   string `json:"raw_name,omitempty"`
	Name      string `json:"name"`
	Line      int    `json:"line"`
	Kind      string `json:"kind"`
	Awaited   bool   `json:"awaited,omitempty"`
	Payload   string `json:"payload,omitempty"`
	IsDynamic bool   `json:"is_dynamic,omitempty"`
}

// Suppression is a recognized inline directive such as #[allow(...)],
// // @ts-ignore, or # noqa.
type Suppression struct {
	Line     int    `json:"line"`
	Kind     string `json:"kind"`
	LintName string `json:"lint_name,omitempty"`
}

// ReactLintIssue is one finding from the React effect-cleanup checker.
type ReactLintIssue struct {
	Rule     string `json:"rule"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
}

// LayoutKind classifies a CSS layout declaration the layout map tracks.
type LayoutKind string

const (
	LayoutZIndex  LayoutKind = "zindex"
	LayoutSticky  LayoutKind = "sticky"
	LayoutGrid    LayoutKind = "grid"
)

// LayoutFinding is one z-index/sticky-position/grid-or-flex declaration
// detected by the CSS analyzer, feeding the cross-file layout map query.
type LayoutFinding struct {
	Kind  LayoutKind `json:"kind"`
	Value string     `json:"value"`
	ZVal  int        `json:"z_value,omitempty"`
	Line  int        `json:"line"`
}

// FileAnalysis is the complete per-file record produced by a language
// analyzer. It is treated as immutable once returned; cross-file passes in
// the assembler produce new values rather than mutating this one in place.
type FileAnalysis struct {
	Path         string   `json:"path"`
	Language     Language `json:"language"`
	Kind         FileKind `json:"kind"`
	LOC          int      `json:"loc"`
	IsTest       bool     `json:"is_test"`
	IsGenerated  bool     `json:"is_generated"`
	ContentHash  uint64   `json:"content_hash"`
	ModTimeUnix  int64    `json:"mod_time_unix,omitempty"`
	Size         int64    `json:"size,omitempty"`

	Imports             []ImportEntry              `json:"imports,omitempty"`
	Reexports           []ReexportEntry            `json:"reexports,omitempty"`
	DynamicImports      []string                   `json:"dynamic_imports,omitempty"`
	Exports             []ExportSymbol             `json:"exports,omitempty"`
	SymbolLocalUses     map[string][]string        `json:"symbol_local_uses,omitempty"`
	EventEmits          []EventRef                 `json:"event_emits,omitempty"`
	EventListens        []EventRef                 `json:"event_listens,omitempty"`
	EventConsts         map[string]string          `json:"event_consts,omitempty"`
	CommandCalls        []CommandRef               `json:"command_calls,omitempty"`
	CommandHandlers     []CommandRef               `json:"command_handlers,omitempty"`
	CommandPayloadCasing []CommandPayloadCasing    `json:"command_payload_casing,omitempty"`
	IsFlowFile          bool                       `json:"is_flow_file,omitempty"`
	Suppressions        []Suppression              `json:"suppressions,omitempty"`
	ReactLintIssues     []ReactLintIssue           `json:"react_lint_issues,omitempty"`
	LayoutFindings      []LayoutFinding            `json:"layout_findings,omitempty"`
}

// GraphEdge is one materialized, resolved dependency relationship.
type GraphEdge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Label EdgeLabel `json:"label"`
}

// CommandBridge pairs frontend invoke() call sites with a backend handler.
type CommandBridge struct {
	Name           string          `json:"name"`
	FrontendCalls  []Location      `json:"frontend_calls"`
	BackendHandler *Location       `json:"backend_handler,omitempty"`
	HasHandler     bool            `json:"has_handler"`
	IsCalled       bool            `json:"is_called"`
}

// EventBridge groups emit/listen call sites that share a resolved event name.
type EventBridge struct {
	Name    string         `json:"name"`
	Emits   []EventLocation `json:"emits"`
	Listens []Location     `json:"listens"`
}

// EventLocation is an emit site annotated with the emit's resolved kind.
type EventLocation struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Kind string `json:"kind"`
}

// Location is a bare file+line pointer.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Barrel describes a file whose purpose is re-exporting its siblings.
type Barrel struct {
	Path          string   `json:"path"`
	ModuleID      string   `json:"module_id"`
	ReexportCount int      `json:"reexport_count"`
	Targets       []string `json:"targets"`
}

// ResolverConfig records the configuration the resolvers used to produce
// this snapshot's edges, for transparency in the persisted metadata.
type ResolverConfig struct {
	TSPaths        map[string][]string `json:"ts_paths,omitempty"`
	TSBaseURL      string              `json:"ts_base_url,omitempty"`
	PyRoots        []string            `json:"py_roots,omitempty"`
	RustCrateRoots []string            `json:"rust_crate_roots,omitempty"`
}

// SnapshotMetadata is the header block of a persisted snapshot.
type SnapshotMetadata struct {
	SchemaVersion   string          `json:"schema_version"`
	GeneratedAt     string          `json:"generated_at"`
	Roots           []string        `json:"roots"`
	Languages       []string        `json:"languages"`
	FileCount       int             `json:"file_count"`
	TotalLOC        int             `json:"total_loc"`
	ScanDurationMS  int64           `json:"scan_duration_ms"`
	ResolverConfig  *ResolverConfig `json:"resolver_config,omitempty"`
	GitRepo         string          `json:"git_repo,omitempty"`
	GitBranch       string          `json:"git_branch,omitempty"`
	GitCommit       string          `json:"git_commit,omitempty"`
	GitScanID       string          `json:"git_scan_id,omitempty"`
}

// SchemaVersion is the current on-disk snapshot schema identifier. Readers
// warn, but do not fail, on mismatch.
const SchemaVersion = "0.5.0-go"

// Snapshot is the complete, persisted result of one scan.
type Snapshot struct {
	Metadata      SnapshotMetadata        `json:"metadata"`
	Files         []FileAnalysis          `json:"files"`
	Edges         []GraphEdge             `json:"edges"`
	ExportIndex   map[string][]string     `json:"export_index"`
	CommandBridges []CommandBridge        `json:"command_bridges"`
	EventBridges  []EventBridge           `json:"event_bridges"`
	Barrels       []Barrel                `json:"barrels"`
}

// FileByPath returns the FileAnalysis stored under path, or nil.
func (s *Snapshot) FileByPath(path string) *FileAnalysis {
	for i := range s.Files {
		if s.Files[i].Path == path {
			return &s.Files[i]
		}
	}
	return nil
}
