package filesystem

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/id"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/types"
	"github.com/GriffinCanCode/sidenote/backend/internal/shared/validation"
	"go.uber.org/zap"
)

// Command names, as invoked by the webview.
const (
	CmdGetFileTree   = "get_file_tree"
	CmdReadFile      = "read_file"
	CmdWriteFile     = "write_file"
	CmdWatchFile     = "watch_file"
	CmdUnwatchFile   = "unwatch_file"
	CmdListDocuments = "list_documents"
	CmdListWatches   = "list_watches"
)

// Provider exposes the indexer, content store and change watcher as commands.
type Provider struct {
	indexer  *TreeIndexer
	content  *ContentStore
	watcher  *ChangeWatcher
	notifier events.Notifier
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewProvider creates the filesystem provider. Modify notifications from
// watch_file registrations are emitted on notifier as file-changed events.
func NewProvider(opts Options, watcher *ChangeWatcher, notifier events.Notifier) *Provider {
	opts = opts.withDefaults()
	if watcher == nil {
		watcher = NewChangeWatcher(opts.Logger, opts.Metrics)
	}
	if notifier == nil {
		notifier = events.Discard
	}
	return &Provider{
		indexer:  NewTreeIndexer(opts),
		content:  NewContentStore(opts),
		watcher:  watcher,
		notifier: notifier,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// Watcher returns the change watcher backing watch_file.
func (p *Provider) Watcher() *ChangeWatcher {
	return p.watcher
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Document Filesystem",
		Description: "Markdown tree indexing, document content and change notification",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"tree",
			"read",
			"write",
			"watch",
		},
		Tools: []types.Tool{
			{
				ID:          CmdGetFileTree,
				Name:        "Get File Tree",
				Description: "Build the filtered, sorted markdown tree under a folder",
				Parameters: []types.Parameter{
					{Name: "root_path", Type: "string", Description: "Folder to index", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          CmdReadFile,
				Name:        "Read File",
				Description: "Read a document as text",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Document path", Required: true},
				},
				Returns: "string",
			},
			{
				ID:          CmdWriteFile,
				Name:        "Write File",
				Description: "Overwrite a document, creating it if needed",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Document path", Required: true},
					{Name: "content", Type: "string", Description: "Full document text", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          CmdWatchFile,
				Name:        "Watch File",
				Description: "Emit file-changed whenever the file is modified",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File to watch", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          CmdUnwatchFile,
				Name:        "Unwatch File",
				Description: "Stop a watch started by watch_file",
				Parameters: []types.Parameter{
					{Name: "watch_id", Type: "string", Description: "ID returned by watch_file", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          CmdListDocuments,
				Name:        "List Documents",
				Description: "Flat sorted list of every markdown document under a folder",
				Parameters: []types.Parameter{
					{Name: "root_path", Type: "string", Description: "Folder to scan", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          CmdListWatches,
				Name:        "List Watches",
				Description: "Live watch registrations, oldest first",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a filesystem command
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	timer := monitoring.NewTimer(p.metrics, toolID)

	result, err := p.dispatch(ctx, toolID, params)

	status := monitoring.StatusSuccess
	if err != nil || result == nil || !result.Success {
		status = monitoring.StatusError
		kind := "Unknown"
		if result != nil && result.Data != nil {
			if k, ok := result.Data["kind"].(string); ok {
				kind = k
			}
		}
		p.metrics.RecordCommandError(toolID, kind)
	}
	duration := timer.Stop(status)

	fields := []zap.Field{
		zap.String("command", toolID),
		zap.String("status", status),
		zap.Duration("duration", duration),
	}
	if appCtx != nil && appCtx.RequestID != "" {
		fields = append(fields, zap.String("request_id", appCtx.RequestID))
	}
	if result != nil && result.Error != nil {
		fields = append(fields, zap.String("error", *result.Error))
	}
	p.logger.Debug("command executed", fields...)

	return result, err
}

func (p *Provider) dispatch(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case CmdGetFileTree:
		return p.getFileTree(ctx, params)
	case CmdReadFile:
		return p.readFile(ctx, params)
	case CmdWriteFile:
		return p.writeFile(ctx, params)
	case CmdWatchFile:
		return p.watchFile(params)
	case CmdUnwatchFile:
		return p.unwatchFile(params)
	case CmdListDocuments:
		return p.listDocuments(ctx, params)
	case CmdListWatches:
		return p.listWatches()
	default:
		return Failure(fmt.Errorf("unknown tool: %s", toolID))
	}
}

func (p *Provider) getFileTree(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, err := pathParam(params, "root_path")
	if err != nil {
		return Failure(err)
	}

	entries, err := p.indexer.BuildTree(ctx, root)
	if err != nil {
		return Failure(err)
	}
	return Success(map[string]interface{}{"entries": entries})
}

func (p *Provider) readFile(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, err := pathParam(params, "path")
	if err != nil {
		return Failure(err)
	}

	content, err := p.content.Read(ctx, path)
	if err != nil {
		return Failure(err)
	}
	return Success(map[string]interface{}{"content": content})
}

func (p *Provider) writeFile(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, err := pathParam(params, "path")
	if err != nil {
		return Failure(err)
	}
	content, ok := params["content"].(string)
	if !ok {
		return Failure(fmt.Errorf("content parameter required"))
	}

	if err := p.content.Write(ctx, path, content); err != nil {
		return Failure(err)
	}
	return Success(map[string]interface{}{"written": true})
}

func (p *Provider) watchFile(params map[string]interface{}) (*types.Result, error) {
	path, err := pathParam(params, "path")
	if err != nil {
		return Failure(err)
	}

	reg, err := p.watcher.Watch(path, func(changed string) {
		p.notifier.Emit(events.New(events.FileChanged, changed))
	})
	if err != nil {
		return Failure(err)
	}
	return Success(map[string]interface{}{
		"watch_id": reg.ID.String(),
		"path":     reg.Path,
	})
}

func (p *Provider) unwatchFile(params map[string]interface{}) (*types.Result, error) {
	raw, ok := params["watch_id"].(string)
	if !ok || raw == "" {
		return Failure(fmt.Errorf("watch_id parameter required"))
	}

	watchID, err := id.ParseWatchID(raw)
	if err != nil {
		return Failure(newError(KindNotFound, "", "watch not found: "+raw, err))
	}
	if err := p.watcher.Unwatch(watchID); err != nil {
		return Failure(err)
	}
	return Success(map[string]interface{}{"stopped": true, "watch_id": raw})
}

func (p *Provider) listDocuments(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	root, err := pathParam(params, "root_path")
	if err != nil {
		return Failure(err)
	}

	docs, err := p.indexer.ListDocuments(ctx, root)
	if err != nil {
		return Failure(err)
	}
	return Success(map[string]interface{}{"documents": docs, "count": len(docs)})
}

func (p *Provider) listWatches() (*types.Result, error) {
	regs := p.watcher.Registrations()
	return Success(map[string]interface{}{"watches": regs, "count": len(regs)})
}

// pathParam extracts and validates a path-valued parameter
func pathParam(params map[string]interface{}, name string) (string, error) {
	value, _ := params[name].(string)
	if value == "" {
		return "", fmt.Errorf("%s parameter required", name)
	}
	if err := validation.ValidatePath(value, name); err != nil {
		return "", err
	}
	return value, nil
}
