package service

// Message types pushed to session subscribers
const (
	MsgAnalysisStarted  = "analysis_started"
	MsgResultUpdated    = "result_updated"
	MsgAnalysisComplete = "analysis_complete"
	MsgSessionReset     = "session_reset"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}
