// Package passes drives the multi-phase elaboration scheduler (C7):
// it walks the parse trees handed to it by a caller-built ptree.Design,
// builds the elaborated object graph described in internal/elab, and
// reports every diagnostic it encounters through the Manager's sink.
//
// Elaborate runs five phases in order:
//
//  1. seed       — index every module/UDP definition by name.
//  2. phase 1    — determine the top-module set and recursively
//                  instantiate scopes, decls, tasks/functions, and
//                  parameters top-down, queuing module/generate
//                  instantiation and gate/assign/process linking for
//                  the phases below.
//  3. phase 2    — drain the module-instantiation and generate-
//                  expansion queue (each of those, in turn, seeds more
//                  phase-1-shaped work for its own body).
//  4. defparam   — iterate the fixpoint loop that resolves defparam
//                  stubs against whatever the module tree looks like
//                  once phase 2 is done.
//  5. phase 3    — drain the completion queue: continuous assigns, gate
//                  terminals, port high-connections, and process and
//                  task bodies, all of which may reference anything
//                  anywhere in the now-final module tree.
//
// Each phase's queue is itself allowed to grow while draining (e.g.
// instantiating a module enqueues its own children's phase-2/3 work),
// which is why draining is a loop over a slice rather than a single
// pass.
package passes
