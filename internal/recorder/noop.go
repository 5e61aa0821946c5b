package recorder

import "EarningsRadar/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScanRun(_ *ScanRun) error                         { return nil }
func (n *NoopRecorder) RecordAnalysis(_ string, _ *model.AnalysisResult) error { return nil }
func (n *NoopRecorder) Close() error                                           { return nil }
