// Package wizard implements the interactive `chzner init` flow.
//
// The wizard asks a handful of questions with huh forms, builds a
// config.Config from the answers and writes it as chzner.yaml. The cluster
// password is never written; it is read from CHZNER_PASSWORD at apply time.
package wizard
