package env

// VariableEnvironment is the var sub-environment (spec §3): name -> (value,
// exported), cheap clone, reads the real process environment on init
// (optionally), satisfies fields.IFSSource so word-splitting code can read
// IFS without importing env.
type VariableEnvironment interface {
	Get(name string) (value string, exported bool, ok bool)
	Set(name, value string, exported bool)
	Unset(name string)
	Each(func(name, value string, exported bool) bool)
	Sub() VariableEnvironment
	// IFS satisfies fields.IFSSource.
	IFS() (value string, isSet bool)
}

type varEntry struct {
	value    string
	exported bool
	deleted  bool // tombstone: shadows a parent-level binding, see Unset
}

// varEnv is a copy-on-write map[string]varEntry, same shape as fdEnv.
type varEnv struct {
	parent *varEnv
	table  map[string]varEntry
	owned  bool
}

// NewVarEnv builds a root variable environment, optionally seeded from the
// process environment (spec §3 "read current-process env on init
// (optional)").
func NewVarEnv(processEnv []string) VariableEnvironment {
	e := &varEnv{table: make(map[string]varEntry, len(processEnv)), owned: true}
	for _, kv := range processEnv {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				e.table[kv[:i]] = varEntry{value: kv[i+1:], exported: true}
				break
			}
		}
	}
	return e
}

func (e *varEnv) Get(name string) (string, bool, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if ent, ok := cur.table[name]; ok {
			if ent.deleted {
				return "", false, false
			}
			return ent.value, ent.exported, true
		}
	}
	return "", false, false
}

func (e *varEnv) own() {
	if e.owned {
		return
	}
	fresh := make(map[string]varEntry, len(e.table)+8)
	for k, v := range e.table {
		fresh[k] = v
	}
	e.table = fresh
	e.owned = true
}

func (e *varEnv) Set(name, value string, exported bool) {
	e.own()
	e.table[name] = varEntry{value: value, exported: exported}
}

func (e *varEnv) Unset(name string) {
	e.own()
	if _, ok := e.table[name]; ok && e.parent == nil {
		// No parent to shadow: a plain delete is enough and keeps Each
		// from having to skip tombstones at the root.
		delete(e.table, name)
		return
	}
	e.table[name] = varEntry{deleted: true}
}

func (e *varEnv) Each(f func(name, value string, exported bool) bool) {
	seen := make(map[string]bool)
	for cur := e; cur != nil; cur = cur.parent {
		for name, ent := range cur.table {
			if seen[name] {
				continue
			}
			seen[name] = true
			if ent.deleted {
				continue
			}
			if !f(name, ent.value, ent.exported) {
				return
			}
		}
	}
}

func (e *varEnv) Sub() VariableEnvironment {
	return &varEnv{parent: e}
}

func (e *varEnv) IFS() (string, bool) {
	v, _, ok := e.Get("IFS")
	return v, ok
}
