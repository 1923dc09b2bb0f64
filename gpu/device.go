package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/robotman2412/vlk-ray-tracer/log"
)

// A Device wraps the WebGPU handles needed to upload scene buffers: the
// instance, the selected adapter and the logical device with its queue.
type Device struct {
	logger log.Logger

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// Open the default high-performance adapter and create a logical device on
// it. The caller owns the returned Device and must Release it.
func OpenDevice() (*Device, error) {
	logger := log.New("gpu")

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: no suitable adapter: %v", err)
	}

	info := adapter.GetInfo()
	logger.Noticef("using adapter %q (%s, %s)", info.Name, info.AdapterType.String(), info.BackendType.String())

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: request device: %v", err)
	}

	return &Device{
		logger:   logger,
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// Get a description of the adapter backing this device.
func (d *Device) AdapterDescription() string {
	info := d.adapter.GetInfo()
	desc := fmt.Sprintf("%s (%s, %s)", info.Name, info.AdapterType.String(), info.BackendType.String())
	if info.DriverDescription != "" {
		desc += ", driver: " + info.DriverDescription
	}
	return desc
}

// Allocate a device buffer initialized with the given contents. Implements
// Allocator.
func (d *Device) CreateBuffer(label string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
}

// Release every handle owned by the device.
func (d *Device) Release() {
	d.queue.Release()
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
}
