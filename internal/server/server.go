package server

// Server joins the entity-specific HTTP servers under one route registrar.
type Server struct {
	DealServer
}

func NewServer(
	dealServer DealServer,
) Server {
	return Server{
		DealServer: dealServer,
	}
}
