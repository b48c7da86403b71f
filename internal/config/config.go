package config

import "sync"

// MeshSettings holds meshing configuration
type MeshSettings struct {
	mu               sync.RWMutex
	ambientOcclusion bool
	meshWorkers      int
	lodLevel         int
}

var globalMeshSettings = &MeshSettings{
	ambientOcclusion: true,
	meshWorkers:      4,
	lodLevel:         0,
}

// GetAmbientOcclusion returns whether builders compute ambient occlusion
func GetAmbientOcclusion() bool {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.ambientOcclusion
}

// SetAmbientOcclusion enables or disables ambient occlusion
func SetAmbientOcclusion(enabled bool) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()
	globalMeshSettings.ambientOcclusion = enabled
}

// GetMeshWorkers returns the worker count for mesh pools
func GetMeshWorkers() int {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.meshWorkers
}

// SetMeshWorkers sets the worker count, clamped to 1..64
func SetMeshWorkers(n int) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()
	globalMeshSettings.meshWorkers = min(max(n, 1), 64)
}

// GetLODLevel returns the level of detail meshes are built at
func GetLODLevel() int {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.lodLevel
}

// SetLODLevel sets the level of detail, clamped to 0..4
func SetLODLevel(level int) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()
	globalMeshSettings.lodLevel = min(max(level, 0), 4)
}
