//go:build windows

package webgpu

// workgroupSize is the number of threads per workgroup.
const workgroupSize = 256

// normalizeRowsShader standardizes each contiguous row of a
// [rows, cols] buffer: result = (x - mean) / sqrt(var + eps).
// One invocation handles one row; variance is the population variance.
const normalizeRowsShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    rows: u32,
    cols: u32,
    eps: f32,
    _pad: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.x;
    if (row >= params.rows) {
        return;
    }

    let offset = row * params.cols;
    let n = f32(params.cols);

    var mean: f32 = 0.0;
    for (var i: u32 = 0u; i < params.cols; i = i + 1u) {
        mean = mean + input[offset + i];
    }
    mean = mean / n;

    var variance: f32 = 0.0;
    for (var i: u32 = 0u; i < params.cols; i = i + 1u) {
        let d = input[offset + i] - mean;
        variance = variance + d * d;
    }
    variance = variance / n;

    let inv = inverseSqrt(variance + params.eps);
    for (var i: u32 = 0u; i < params.cols; i = i + 1u) {
        result[offset + i] = (input[offset + i] - mean) * inv;
    }
}
`
