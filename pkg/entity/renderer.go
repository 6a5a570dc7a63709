package entity

// Renderer draws floating bodies. Implementations only read the bodies.
type Renderer interface {
	RenderBody(body *FloatingBody)
	Clear()
	Present()
}
