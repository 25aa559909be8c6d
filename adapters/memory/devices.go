package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryasatya/momentum/domain/entities"
	"github.com/aryasatya/momentum/domain/repositories"
)

// DeviceRepository is an in-memory implementation of
// repositories.DeviceRepository with secret-based device authentication.
type DeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]*entities.Device // id -> device
	serials map[string]*entities.Device // serial_number -> device
	secrets map[string]string           // serial_number -> secret
}

// NewDeviceRepository creates an empty in-memory device repository.
func NewDeviceRepository() *DeviceRepository {
	return &DeviceRepository{
		devices: make(map[string]*entities.Device),
		serials: make(map[string]*entities.Device),
		secrets: make(map[string]string),
	}
}

// Create stores a new device, generating an ID when absent.
func (r *DeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	if device == nil {
		return errors.New("device cannot be nil")
	}
	if err := device.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.serials[device.SerialNumber]; exists {
		return errors.New("device with this serial number already exists")
	}
	if device.ID == "" {
		device.ID = uuid.New().String()
	}
	now := time.Now()
	device.CreatedAt = now
	device.UpdatedAt = now

	deviceCopy := *device
	r.devices[device.ID] = &deviceCopy
	r.serials[device.SerialNumber] = &deviceCopy
	return nil
}

// GetByID returns a copy of the device with the given ID.
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, exists := r.devices[id]
	if !exists {
		return nil, errors.New("device not found")
	}
	deviceCopy := *device
	return &deviceCopy, nil
}

// GetBySerialNumber returns a copy of the device with the given serial.
func (r *DeviceRepository) GetBySerialNumber(ctx context.Context, serialNumber string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, exists := r.serials[serialNumber]
	if !exists {
		return nil, errors.New("device not found")
	}
	deviceCopy := *device
	return &deviceCopy, nil
}

// ValidateDevice checks serial number and secret for authentication.
func (r *DeviceRepository) ValidateDevice(serialNumber, secret string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storedSecret, exists := r.secrets[serialNumber]
	if !exists {
		return nil, errors.New("device not found")
	}
	if storedSecret != secret {
		return nil, errors.New("invalid credentials")
	}
	device, exists := r.serials[serialNumber]
	if !exists {
		return nil, errors.New("device not found")
	}
	deviceCopy := *device
	return &deviceCopy, nil
}

// RegisterDeviceSecret sets the authentication secret for a serial number.
func (r *DeviceRepository) RegisterDeviceSecret(serialNumber, secret string) error {
	if serialNumber == "" {
		return errors.New("serial number cannot be empty")
	}
	if secret == "" {
		return errors.New("secret cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets[serialNumber] = secret
	return nil
}

var _ repositories.DeviceRepository = (*DeviceRepository)(nil)
