package appcore_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
)

type renameCommand struct {
	ID    string
	Title string
}

type document struct {
	ID    string
	Title string
}

// recordingHandler records every template step it goes through.
type recordingHandler struct {
	mu    sync.Mutex
	steps []string

	authorizeResult appcore.Result[appcore.Unit]
	authorizeErr    error
	aggregate       *document
	handleResult    appcore.Result[document]
	handleErr       error
	monitorErr      error
	monitorPanic    bool
	monitorBlock    chan struct{}
	monitored       chan *document
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		authorizeResult: appcore.EmptySuccess(),
		aggregate:       &document{ID: "D1", Title: "old"},
		handleResult:    appcore.Success(document{ID: "D1", Title: "new"}),
		monitored:       make(chan *document, 1),
	}
}

func (h *recordingHandler) record(step string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.steps = append(h.steps, step)
}

func (h *recordingHandler) Steps() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.steps...)
}

func (h *recordingHandler) Authorize(
	_ context.Context,
	_ renameCommand,
	_ authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	h.record("authorize")
	return h.authorizeResult, h.authorizeErr
}

func (h *recordingHandler) GetAggregate(_ context.Context, _ renameCommand) (*document, error) {
	h.record("get_aggregate")
	return h.aggregate, nil
}

func (h *recordingHandler) Handle(
	_ context.Context,
	_ renameCommand,
	_ authentification.Utilisateur,
	_ *document,
) (appcore.Result[document], error) {
	h.record("handle")
	return h.handleResult, h.handleErr
}

func (h *recordingHandler) Monitor(
	_ context.Context,
	_ authentification.Utilisateur,
	_ renameCommand,
	aggregate *document,
) error {
	if h.monitorBlock != nil {
		<-h.monitorBlock
	}
	h.record("monitor")
	h.monitored <- aggregate
	if h.monitorPanic {
		panic("audit store exploded")
	}
	return h.monitorErr
}

var beneficiaire = authentification.Utilisateur{ID: "B1", Type: authentification.TypeJeune}

func newExecutor(t *testing.T, handler *recordingHandler) (
	*appcore.CommandExecutor[renameCommand, document, document],
	*appcore.AsyncDispatcher,
) {
	t.Helper()
	dispatcher := appcore.NewAsyncDispatcher()
	runtime := appcore.NewRuntime(appcore.WithDispatcher(dispatcher))
	return appcore.NewCommandExecutor[renameCommand, document, document]("RenameDocument", handler, runtime), dispatcher
}

func waitMonitors(t *testing.T, dispatcher *appcore.AsyncDispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Wait(ctx))
}

func TestCommandExecutor_AuthorizeFailureStopsExecution(t *testing.T) {
	handler := newRecordingHandler()
	forbidden := errs.Forbidden()
	handler.authorizeResult = appcore.Failure[appcore.Unit](forbidden)
	executor, dispatcher := newExecutor(t, handler)

	result, err := executor.Execute(context.Background(), renameCommand{ID: "D1"}, beneficiaire)
	waitMonitors(t, dispatcher)

	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Same(t, forbidden, result.Error())
	assert.Equal(t, []string{"authorize"}, handler.Steps())
}

func TestCommandExecutor_ReturnsHandleResult(t *testing.T) {
	handler := newRecordingHandler()
	executor, dispatcher := newExecutor(t, handler)

	result, err := executor.Execute(context.Background(), renameCommand{ID: "D1", Title: "new"}, beneficiaire)
	waitMonitors(t, dispatcher)

	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Equal(t, document{ID: "D1", Title: "new"}, result.Data())
	assert.Equal(t, []string{"authorize", "get_aggregate", "handle", "monitor"}, handler.Steps())
	assert.Same(t, handler.aggregate, <-handler.monitored)
}

func TestCommandExecutor_HandleFailureStillMonitors(t *testing.T) {
	handler := newRecordingHandler()
	handler.handleResult = appcore.Failure[document](errs.NotFound("Document", "D1"))
	executor, dispatcher := newExecutor(t, handler)

	result, err := executor.Execute(context.Background(), renameCommand{ID: "D1"}, beneficiaire)
	waitMonitors(t, dispatcher)

	require.NoError(t, err)
	assert.Equal(t, errs.CodeNotFound, result.Code())
	assert.Contains(t, handler.Steps(), "monitor")
}

func TestCommandExecutor_MonitorFailureDoesNotChangeResult(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *recordingHandler)
	}{
		{"monitor returns an error", func(h *recordingHandler) { h.monitorErr = errors.New("audit down") }},
		{"monitor panics", func(h *recordingHandler) { h.monitorPanic = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRecordingHandler()
			tt.setup(handler)
			executor, dispatcher := newExecutor(t, handler)

			result, err := executor.Execute(context.Background(), renameCommand{ID: "D1"}, beneficiaire)
			waitMonitors(t, dispatcher)

			require.NoError(t, err)
			require.True(t, result.IsSuccess())
			assert.Equal(t, "new", result.Data().Title)
		})
	}
}

func TestCommandExecutor_DoesNotWaitForMonitor(t *testing.T) {
	handler := newRecordingHandler()
	handler.monitorBlock = make(chan struct{})
	executor, dispatcher := newExecutor(t, handler)

	result, err := executor.Execute(context.Background(), renameCommand{ID: "D1"}, beneficiaire)

	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	assert.NotContains(t, handler.Steps(), "monitor")

	close(handler.monitorBlock)
	waitMonitors(t, dispatcher)
	assert.Contains(t, handler.Steps(), "monitor")
}

func TestCommandExecutor_MonitorSurvivesRequestCancellation(t *testing.T) {
	handler := newRecordingHandler()
	handler.monitorBlock = make(chan struct{})
	executor, dispatcher := newExecutor(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := executor.Execute(ctx, renameCommand{ID: "D1"}, beneficiaire)
	require.NoError(t, err)
	cancel()

	close(handler.monitorBlock)
	waitMonitors(t, dispatcher)
	assert.Contains(t, handler.Steps(), "monitor")
}

func TestCommandExecutor_UnexpectedErrors(t *testing.T) {
	boom := errors.New("mongo unreachable")

	t.Run("authorize", func(t *testing.T) {
		handler := newRecordingHandler()
		handler.authorizeErr = boom
		executor, dispatcher := newExecutor(t, handler)

		_, err := executor.Execute(context.Background(), renameCommand{ID: "D1"}, beneficiaire)
		waitMonitors(t, dispatcher)

		require.ErrorIs(t, err, boom)
		var unexpected *appcore.UnexpectedError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, appcore.StepAuthorize, unexpected.Step)
		assert.Equal(t, "RenameDocument", unexpected.Handler)
		assert.Equal(t, []string{"authorize"}, handler.Steps())
	})

	t.Run("handle", func(t *testing.T) {
		handler := newRecordingHandler()
		handler.handleErr = boom
		executor, dispatcher := newExecutor(t, handler)

		result, err := executor.Execute(context.Background(), renameCommand{ID: "D1"}, beneficiaire)
		waitMonitors(t, dispatcher)

		require.ErrorIs(t, err, boom)
		assert.True(t, result.IsFailure())
		assert.Nil(t, result.Error())
		assert.NotContains(t, handler.Steps(), "monitor")
	})
}

func TestNoAggregateAndNoMonitor(t *testing.T) {
	var loader appcore.NoAggregate[renameCommand, document]
	aggregate, err := loader.GetAggregate(context.Background(), renameCommand{})
	require.NoError(t, err)
	assert.Nil(t, aggregate)

	var monitor appcore.NoMonitor[renameCommand, document]
	assert.NoError(t, monitor.Monitor(context.Background(), beneficiaire, renameCommand{}, nil))
}
