package models

// SimulationRequest is the body of POST /api/v1/simulations.
type SimulationRequest struct {
	ConfigPath string `json:"config_path" binding:"required"`
	InputPath  string `json:"input_path"`
}
