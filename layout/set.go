package layout

// Set holds the layouts of every client structure for one model.
type Set struct {
	Model     Model
	Handle    Info
	Node      Info
	NodeList  Info
	ByteArray Info
}

// Of computes the layout set for m.
func Of(m Model) Set {
	c := NewCalculator(m)
	return Set{
		Model:     m,
		Handle:    c.Calculate(KindPointer),
		Node:      c.Calculate(KindNode),
		NodeList:  c.Calculate(KindNodeList),
		ByteArray: c.Calculate(KindByteArray),
	}
}
