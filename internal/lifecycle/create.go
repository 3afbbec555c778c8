package lifecycle

import (
	"context"
	"sync"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

type CreateState int

const (
	StateIdle CreateState = iota
	StateCredentialsEntered
	StateDirectoriesFetched
	StateDirectoriesChosen
	StateLocalDirectoryChosen
	StateSubmitting
	StateSucceeded
)

func (s CreateState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCredentialsEntered:
		return "credentials entered"
	case StateDirectoriesFetched:
		return "directories fetched"
	case StateDirectoriesChosen:
		return "directories chosen"
	case StateLocalDirectoryChosen:
		return "local directory chosen"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Outcome is the result of a create step that may need further input.
type Outcome int

const (
	// OutcomeStale means the flow moved on while the step was in flight; the
	// result was dropped.
	OutcomeStale Outcome = iota
	// OutcomeAborted means the flow went back to idle.
	OutcomeAborted
	// OutcomeNeedsConfirmation asks the user to accept a non-empty folder.
	OutcomeNeedsConfirmation
	// OutcomeDeclined keeps every input so another folder can be picked.
	OutcomeDeclined
	OutcomeFailed
	OutcomeSucceeded
)

// CreateFlow drives the creation of a new pairing. Its lock is never held
// while calling the discoverer or the host.
type CreateFlow struct {
	host       domain.Host
	discoverer domain.Discoverer
	alerter    domain.Alerter
	syncer     SyncTrigger
	homeDir    func() string

	mu             sync.Mutex
	generation     uint64
	state          CreateState
	credentials    Credentials
	chooser        *DirectoryChooser
	chosen         []string
	localDirectory string
}

func NewCreateFlow(host domain.Host, discoverer domain.Discoverer, alerter domain.Alerter, syncer SyncTrigger) *CreateFlow {
	return &CreateFlow{
		host:       host,
		discoverer: discoverer,
		alerter:    alerter,
		syncer:     syncer,
		homeDir:    homeDirectory,
	}
}

func (f *CreateFlow) State() CreateState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *CreateFlow) Chooser() *DirectoryChooser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chooser
}

func (f *CreateFlow) Credentials() Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credentials
}

func (f *CreateFlow) ChosenDirectories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chosen...)
}

func (f *CreateFlow) LocalDirectory() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localDirectory
}

// Connect validates the form and fetches the remote directories. It reports
// whether the chooser has directories to offer.
func (f *CreateFlow) Connect(ctx context.Context, credentials Credentials) bool {
	if msg := validateCredentials(credentials); msg != "" {
		f.Cancel()
		f.alert(msg)
		return false
	}

	f.mu.Lock()
	f.generation++
	generation := f.generation
	f.resetLocked()
	f.state = StateCredentialsEntered
	f.credentials = credentials
	f.mu.Unlock()

	directories := f.discoverer.ListRemoteDirectories(ctx, credentials.URL, credentials.Username, credentials.Password)

	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		logger.Log("Discarding directories for %s fetched after the form was closed", credentials.Name)
		return false
	}
	if len(directories) == 0 {
		return false
	}

	f.chooser = NewDirectoryChooser(directories, nil)
	f.state = StateDirectoriesFetched
	return true
}

// ChooseDirectories commits the chooser selection and returns where the
// folder picker should open.
func (f *CreateFlow) ChooseDirectories() (string, bool) {
	f.mu.Lock()
	if f.state != StateDirectoriesFetched || f.chooser == nil {
		f.mu.Unlock()
		return "", false
	}

	chosen := f.chooser.Chosen()
	if len(chosen) == 0 {
		f.mu.Unlock()
		f.alert(MsgRemoteDirectoryMissing)
		return "", false
	}

	f.chosen = chosen
	f.state = StateDirectoriesChosen
	f.mu.Unlock()

	return f.homeDir(), true
}

// ChooseLocalDirectory takes the folder picker result. An empty path aborts
// the whole flow.
func (f *CreateFlow) ChooseLocalDirectory(ctx context.Context, path string) Outcome {
	f.mu.Lock()
	if f.state != StateDirectoriesChosen && f.state != StateLocalDirectoryChosen {
		f.mu.Unlock()
		return OutcomeStale
	}

	if path == "" {
		f.generation++
		f.resetLocked()
		f.mu.Unlock()
		f.alert(MsgLocalDirectoryMissing)
		return OutcomeAborted
	}

	f.localDirectory = path
	f.state = StateLocalDirectoryChosen
	generation := f.generation
	f.mu.Unlock()

	empty := f.host.IsLocalDirectoryEmpty(ctx, path)

	f.mu.Lock()
	if generation != f.generation {
		f.mu.Unlock()
		logger.Log("Discarding emptiness check of %s after the form was closed", path)
		return OutcomeStale
	}
	f.mu.Unlock()

	if !empty {
		return OutcomeNeedsConfirmation
	}
	return f.submit(ctx)
}

// ConfirmNonEmpty answers the non-empty folder question.
func (f *CreateFlow) ConfirmNonEmpty(ctx context.Context, confirmed bool) Outcome {
	f.mu.Lock()
	state := f.state
	f.mu.Unlock()

	if state != StateLocalDirectoryChosen {
		return OutcomeStale
	}
	if !confirmed {
		return OutcomeDeclined
	}
	return f.submit(ctx)
}

// LocalDirectoryDefault is where the folder picker opens when the user picks
// another folder after declining.
func (f *CreateFlow) LocalDirectoryDefault() string {
	f.mu.Lock()
	local := f.localDirectory
	f.mu.Unlock()

	if local != "" {
		return local
	}
	return f.homeDir()
}

func (f *CreateFlow) submit(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.state != StateLocalDirectoryChosen {
		f.mu.Unlock()
		return OutcomeStale
	}

	f.state = StateSubmitting
	generation := f.generation
	request := domain.NewRemoteRequest{
		URL:               f.credentials.URL,
		Username:          f.credentials.Username,
		Password:          f.credentials.Password,
		Name:              f.credentials.Name,
		LocalDirectory:    f.localDirectory,
		RemoteDirectories: append([]string(nil), f.chosen...),
	}
	f.mu.Unlock()

	ok := f.host.AddRemote(ctx, request)

	f.mu.Lock()
	if generation != f.generation {
		f.mu.Unlock()
		logger.Log("Discarding add result for %s after the form was closed (success=%t)", request.Name, ok)
		return OutcomeStale
	}

	if !ok {
		f.state = StateLocalDirectoryChosen
		f.mu.Unlock()
		f.alert(MsgAddFailed)
		return OutcomeFailed
	}

	f.resetLocked()
	f.state = StateSucceeded
	f.mu.Unlock()

	f.syncer.RunSync()
	return OutcomeSucceeded
}

// Cancel closes the form. Steps still in flight will find their result
// dropped.
func (f *CreateFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.resetLocked()
}

func (f *CreateFlow) resetLocked() {
	f.state = StateIdle
	f.credentials = Credentials{}
	f.chooser = nil
	f.chosen = nil
	f.localDirectory = ""
}

func (f *CreateFlow) alert(message string) {
	if f.alerter != nil {
		f.alerter.Alert(message)
	}
}
