package grid

// Device is a passive appliance identified by name.
// It is held by at most one outlet at a time.
type Device struct {
	name string

	// outlet is the holder; non-owning.
	outlet *Outlet
}

// NewDevice creates a device with the given name.
func NewDevice(name string) *Device {
	return &Device{name: name}
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// Outlet returns the outlet holding the device, or nil when unplugged.
func (d *Device) Outlet() *Outlet {
	return d.outlet
}

// HasPower reports whether the device is plugged into a powered outlet.
func (d *Device) HasPower() bool {
	return d.outlet != nil && d.outlet.HasPower()
}

func (*Device) pluggable() {}
