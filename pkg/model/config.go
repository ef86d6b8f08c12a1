package model

// NetworkConfig shapes the classifier network
type NetworkConfig struct {
	// HiddenLayers lists the size of each hidden layer
	HiddenLayers []int

	// Activation is one of sigmoid, relu, leaky-relu or tanh
	Activation string
}

// DefaultNetworkConfig is one hidden layer of 40 leaky-relu units.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		HiddenLayers: []int{40},
		Activation:   "leaky-relu",
	}
}
