package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CerrarTurnoRequest struct {
	Notas *string `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TurnoResponse struct {
	ID         string  `json:"id"`
	EmpleadoID string  `json:"empleado_id"`
	HoraInicio string  `json:"hora_inicio"`
	HoraFin    *string `json:"hora_fin"`
	Estado     string  `json:"estado"`
	Notas      *string `json:"notas"`
	// Transcurrido is recomputed on every read, "3h 25m" — display only.
	Transcurrido string `json:"transcurrido,omitempty"`
}
