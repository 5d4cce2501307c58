package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by anything that mounts routes on the API
// router; the application wires handlers through it without knowing
// their concrete types.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
