package inspector

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

const separator = "___________________________"

// Write prints the report: the runtime and delegate configuration, the details of all inputs and outputs,
// and then the shape, name and index of the first input and of the first output.
//
// The output is buffered and written to w at once.
func (r *Report) Write(w io.Writer) error {
	if len(r.Inputs) == 0 || len(r.Outputs) == 0 {
		return errors.Errorf("report of %q has no inputs or no outputs", r.Model.Path)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "runtime: TensorFlow Lite %s\n", r.RuntimeVersion)
	if r.DelegateVersion != "" {
		fmt.Fprintf(&buf, "delegate: %s version %s options=%s\n", r.DelegateLibrary, r.DelegateVersion, formatOptions(r.DelegateOptions))
	} else {
		fmt.Fprintf(&buf, "delegate: %s options=%s\n", r.DelegateLibrary, formatOptions(r.DelegateOptions))
	}
	if len(r.Devices) > 0 {
		fmt.Fprintf(&buf, "devices: %s\n", strings.Join(r.Devices, " "))
	}
	fmt.Fprintf(&buf, "edgetpu ops: %d\n", r.EdgeTPUOps)

	buf.WriteString("\ninput details=\n")
	writeDetails(&buf, r.Inputs)
	buf.WriteString("\noutput details=\n")
	writeDetails(&buf, r.Outputs)

	input, output := r.Inputs[0], r.Outputs[0]
	fmt.Fprintf(&buf, "\n%s\n", separator)
	fmt.Fprintf(&buf, "\ninput shape= %s\n", formatShape(input.Shape))
	fmt.Fprintf(&buf, "\noutput shape= %s\n", formatShape(output.Shape))
	fmt.Fprintf(&buf, "\n%s\n", separator)
	fmt.Fprintf(&buf, "\ninput name= %s\n", input.Name)
	fmt.Fprintf(&buf, "\noutput name= %s\n", output.Name)
	fmt.Fprintf(&buf, "\n%s\n", separator)
	fmt.Fprintf(&buf, "\ninput index= %d\n", input.Index)
	fmt.Fprintf(&buf, "\noutput index= %d\n", output.Index)
	fmt.Fprintf(&buf, "\n%s\n", separator)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return nil
}

// writeDetails writes one row per descriptor.
func writeDetails(w io.Writer, descriptors []TensorDescriptor) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"INDEX", "NAME", "SHAPE", "SIGNATURE", "DTYPE", "BYTES", "QUANTIZATION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	for _, d := range descriptors {
		table.Append([]string{
			strconv.Itoa(d.Index), d.Name, formatShape(d.Shape), formatShape(d.ShapeSignature),
			d.DType.GoTypeName(), strconv.Itoa(d.Bytes), d.quantizationString(),
		})
	}
	table.Render()
}

// formatOptions formats the delegate options sorted by key, e.g. {device: "usb:0"}.
func formatOptions(options map[string]string) string {
	parts := make([]string, 0, len(options))
	for _, key := range slices.Sorted(maps.Keys(options)) {
		parts = append(parts, fmt.Sprintf("%s: %q", key, options[key]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
