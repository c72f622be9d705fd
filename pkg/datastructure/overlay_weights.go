package datastructure

// OverlayWeights. the array W of every cell clique, indexed by Cell.WeightIndex.
type OverlayWeights struct {
	weights []Cost
}

func NewOverlayWeights(weightVectorSize uint32) *OverlayWeights {
	ow := &OverlayWeights{weights: make([]Cost, weightVectorSize)}
	for i := range ow.weights {
		ow.weights[i] = InfiniteCost()
	}
	return ow
}

func (ow *OverlayWeights) GetWeight(i uint32) Cost {
	return ow.weights[i]
}

func (ow *OverlayWeights) SetWeight(i uint32, c Cost) {
	ow.weights[i] = c
}

func (ow *OverlayWeights) GetWeights() []Cost {
	return ow.weights
}

func (ow *OverlayWeights) Len() int {
	return len(ow.weights)
}
