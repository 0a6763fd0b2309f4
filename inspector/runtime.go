package inspector

// Runtime is the inference runtime the inspector drives. The tflite_inspect command implements it with the
// TensorFlow Lite C library.
type Runtime interface {
	// Version of the runtime.
	Version() string

	// LoadDelegate loads the delegate shared library and creates a delegate configured with options.
	LoadDelegate(library string, options map[string]string) (Delegate, error)

	// NewInterpreter loads the model file and creates an interpreter using the delegates.
	NewInterpreter(modelPath string, delegates ...Delegate) (Interpreter, error)
}

// Delegate is an accelerator plugin created by Runtime.LoadDelegate.
type Delegate interface {
	// Library is the shared library the delegate was loaded from.
	Library() string

	// Version of the accelerator runtime, or "" if not reported.
	Version() string

	// Devices lists the accelerators seen by the delegate, or nil if it can't enumerate them.
	Devices() []string
}

// Interpreter is a model bound to a runtime session.
type Interpreter interface {
	// AllocateTensors must be called before the details are queried.
	AllocateTensors() error

	// InputDetails and OutputDetails return the descriptors of the model's inputs and outputs, in order.
	InputDetails() []TensorDescriptor
	OutputDetails() []TensorDescriptor

	// EdgeTPUOps returns the number of operators compiled for the Edge TPU, 0 if the model was not compiled for it.
	EdgeTPUOps() int

	// Close releases the interpreter and the model.
	Close() error
}
