package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// PipelineCache lets the driver reuse compiled pipeline state.
type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	info := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}
	ret := &PipelineCache{Device: d}
	if err := vkResult(vk.CreatePipelineCache(d.VKDevice, &info, nil, &ret.VKPipelineCache), "create pipeline cache"); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(c.Device.VKDevice, c.VKPipelineCache, nil)
}

type GraphicsPipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
}

// CreateGraphicsPipeline creates a pipeline for subpass 0 of renderPass.
func (d *Device) CreateGraphicsPipeline(cache *PipelineCache, renderPass *RenderPass, extent vk.Extent2D, config *GraphicsPipelineConfig) (*GraphicsPipeline, error) {
	var vkCache vk.PipelineCache
	if cache != nil {
		vkCache = cache.VKPipelineCache
	}
	info := config.VKGraphicsPipelineCreateInfo(renderPass, extent)

	pipelines := make([]vk.Pipeline, 1)
	if err := vkResult(vk.CreateGraphicsPipelines(d.VKDevice, vkCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines), "create graphics pipeline"); err != nil {
		return nil, err
	}
	return &GraphicsPipeline{Device: d, VKPipeline: pipelines[0]}, nil
}

func (p *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
}
