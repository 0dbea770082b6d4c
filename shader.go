package vkbase

import (
	"context"
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/sync/errgroup"
)

const spirvMagic = 0x07230203

// DefaultEntryPoint is the shader function stages start at unless told
// otherwise.
const DefaultEntryPoint = "main"

// ErrInvalidSPIRV is the cause of every shader decoding failure.
var ErrInvalidSPIRV = errors.New("invalid SPIR-V")

type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// ShaderStage names a SPIR-V file and the pipeline stage it runs in.
type ShaderStage struct {
	File  string
	Stage vk.ShaderStageFlagBits
	// EntryPoint defaults to "main".
	EntryPoint string
}

// decodeSPIRV turns a little endian SPIR-V binary into words.
func decodeSPIRV(data []byte) ([]uint32, error) {
	if len(data) < 4*5 {
		return nil, errors.Wrapf(ErrInvalidSPIRV, "%d bytes is shorter than the header", len(data))
	}
	if len(data)%4 != 0 {
		return nil, errors.Wrapf(ErrInvalidSPIRV, "size %d is not a multiple of 4", len(data))
	}
	code := make([]uint32, len(data)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	if code[0] != spirvMagic {
		return nil, errors.Wrapf(ErrInvalidSPIRV, "bad magic %#08x", code[0])
	}
	return code, nil
}

// readShaderFiles reads and decodes files concurrently, keeping their order.
func readShaderFiles(ctx context.Context, files []string) ([][]uint32, error) {
	codes := make([][]uint32, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrap(err, "read shader")
			}
			code, err := decodeSPIRV(data)
			if err != nil {
				return errors.Wrapf(err, "decode shader %s", file)
			}
			codes[i] = code
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}

// CreateShaderModule creates a module from decoded SPIR-V words.
func (d *Device) CreateShaderModule(code []uint32, description string) (*ShaderModule, error) {
	info := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code) * 4),
		PCode:    code,
	}
	ret := &ShaderModule{Device: d, Description: description}
	if err := vkResult(vk.CreateShaderModule(d.VKDevice, &info, nil, &ret.VKShaderModule), "create shader module "+description); err != nil {
		return nil, err
	}
	return ret, nil
}

func (d *Device) LoadShaderModuleFromFile(file string) (*ShaderModule, error) {
	codes, err := readShaderFiles(context.Background(), []string{file})
	if err != nil {
		return nil, err
	}
	return d.CreateShaderModule(codes[0], file)
}

// LoadShaderStages loads every stage's file concurrently and creates one
// module per stage. The caller destroys the modules once the pipelines
// using them exist.
func (d *Device) LoadShaderStages(ctx context.Context, stages ...ShaderStage) ([]*ShaderModule, []vk.PipelineShaderStageCreateInfo, error) {
	files := make([]string, len(stages))
	for i, s := range stages {
		files[i] = s.File
	}
	codes, err := readShaderFiles(ctx, files)
	if err != nil {
		return nil, nil, err
	}

	modules := make([]*ShaderModule, 0, len(stages))
	infos := make([]vk.PipelineShaderStageCreateInfo, 0, len(stages))
	for i, s := range stages {
		m, err := d.CreateShaderModule(codes[i], s.File)
		if err != nil {
			for _, m := range modules {
				m.Destroy()
			}
			return nil, nil, err
		}
		entry := s.EntryPoint
		if entry == "" {
			entry = DefaultEntryPoint
		}
		modules = append(modules, m)
		infos = append(infos, m.VKPipelineShaderStageCreateInfo(s.Stage, entry))
	}
	Logger().Debug("shader stages loaded", "files", files)
	return modules, infos, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}
