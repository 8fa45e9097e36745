// Package syncer reconciles the scraped event set against the Google
// Calendar and applies the resulting create/delete actions.
//
// Two policies exist. The replace-all policy mirrors the historical behavior:
// every scraped event is created and every calendar event is deleted each
// run. The equality-diff policy (the default) computes the minimal action
// set: it creates only events with no equal calendar entry and deletes only
// calendar entries that have no equal source event, start in the future, and
// were created by the configured service identity.
//
// Deletions are guarded twice: planning never selects a foreign-creator event
// under equality-diff, and apply asserts ownership before every delete,
// aborting the whole run on a mismatch. Individual apply failures are logged
// and skipped by default so one bad API call does not strand the run; the
// next run re-converges. FailFast flips that to abort on the first failure.
package syncer
