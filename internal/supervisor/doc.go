// Package supervisor wraps thejerf/suture into a small hierarchical
// supervisor tree for the AMAS engine's background jobs and HTTP listeners.
//
// The root supervisor has two child layers:
//
//	RootSupervisor ("wordforge-amasd")
//	  ├── jobs ("background-jobs")
//	  │     ├── monitoring retention sweep
//	  │     ├── due-index consistency sampler
//	  │     └── value-log GC
//	  └── api ("http-api")
//	        ├── health server
//	        └── metrics server
//
// Jobs are added via AddJob and HTTP services via AddAPIService. A service
// that returns an error is restarted at once; once its failures, decaying
// over FailureDecay seconds, pass FailureThreshold, the supervisor waits
// FailureBackoff before restarting it again.
//
// The retention sweep and the consistency sampler additionally guard
// against overlapping runs with their own atomic flag (see internal/jobs)
// before doing any work, since suture restarts a failed Serve() call but
// does not prevent a slow run from still being in flight when backoff
// expires. The value-log GC job has no such flag.
package supervisor
