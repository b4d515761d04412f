package env

// RedirectRestorer captures, per touched fd, the prior (handle,
// permissions) or absence, and can roll the fd table back to that
// snapshot (spec §3 "Restorers").
type RedirectRestorer struct {
	env   FileDescEnvironment
	io    AsyncIOEnvironment
	prior map[int]fdSnapshot
}

type fdSnapshot struct {
	handle  FileDesc
	perms   Permissions
	existed bool
}

// NewRedirectRestorer builds a restorer over env. Call Backup for every fd
// a redirect is about to touch before applying it.
func NewRedirectRestorer(fdEnv FileDescEnvironment, io AsyncIOEnvironment) *RedirectRestorer {
	return &RedirectRestorer{env: fdEnv, io: io, prior: make(map[int]fdSnapshot)}
}

// Backup snapshots fd's current binding, if not already snapshotted (spec
// §3 "reserve", "backup").
func (r *RedirectRestorer) Backup(fd int) {
	if _, ok := r.prior[fd]; ok {
		return
	}
	h, p, ok := r.env.FileDesc(fd)
	r.prior[fd] = fdSnapshot{handle: h, perms: p, existed: ok}
}

// Apply backs up action's fd and applies it in one step.
func (r *RedirectRestorer) Apply(action RedirectAction) error {
	r.Backup(action.Fd)
	return action.Apply(r.env, r.io)
}

// Restore rolls every touched fd back to its pre-Backup state.
func (r *RedirectRestorer) Restore() {
	for fd, snap := range r.prior {
		if snap.existed {
			r.env.SetFileDesc(fd, snap.handle, snap.perms)
		} else {
			r.env.CloseFileDesc(fd)
		}
	}
	r.prior = make(map[int]fdSnapshot)
}

// VarRestorer captures, per touched variable, the prior (value, exported)
// or absence (spec §3 "a variable restorer").
type VarRestorer struct {
	env   VariableEnvironment
	prior map[string]varSnapshot
}

type varSnapshot struct {
	value    string
	exported bool
	existed  bool
}

func NewVarRestorer(varEnv VariableEnvironment) *VarRestorer {
	return &VarRestorer{env: varEnv, prior: make(map[string]varSnapshot)}
}

// Backup snapshots name's current binding, if not already snapshotted.
func (r *VarRestorer) Backup(name string) {
	if _, ok := r.prior[name]; ok {
		return
	}
	v, exported, ok := r.env.Get(name)
	r.prior[name] = varSnapshot{value: v, exported: exported, existed: ok}
}

// Set backs up name and assigns it value, preserving its prior exported
// flag if it was already exported (spec §4.6 step 2: "preserve its
// exported flag if already exported").
func (r *VarRestorer) Set(name, value string) {
	r.Backup(name)
	exported := r.prior[name].exported
	r.env.Set(name, value, exported)
}

// Restore rolls every touched variable back to its pre-Backup state.
func (r *VarRestorer) Restore() {
	for name, snap := range r.prior {
		if snap.existed {
			r.env.Set(name, snap.value, snap.exported)
		} else {
			r.env.Unset(name)
		}
	}
	r.prior = make(map[string]varSnapshot)
}

// Restorer composes a RedirectRestorer and a VarRestorer behind a single
// scoped-guard API (spec §9 "Prefer a single composed env restorer").
// Construct with NewRestorer, defer Close immediately (Go has no Drop, so
// a deferred Close is the idiomatic analogue of "restores unless
// cleared"), and call Commit to keep the mutations instead.
type Restorer struct {
	Redirects *RedirectRestorer
	Vars      *VarRestorer
	committed bool
}

func NewRestorer(fdEnv FileDescEnvironment, varEnv VariableEnvironment, io AsyncIOEnvironment) *Restorer {
	return &Restorer{
		Redirects: NewRedirectRestorer(fdEnv, io),
		Vars:      NewVarRestorer(varEnv),
	}
}

// Commit keeps every mutation made since construction: a subsequent Close
// becomes a no-op.
func (r *Restorer) Commit() { r.committed = true }

// Close restores both the fd table and the variable table, unless Commit
// was called first. Safe to call multiple times.
func (r *Restorer) Close() error {
	if r.committed {
		return nil
	}
	r.Redirects.Restore()
	r.Vars.Restore()
	r.committed = true
	return nil
}
