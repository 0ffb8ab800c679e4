package ccb

// Material is the subset of a material record the runtime uses.
type Material struct {
	Type            int32
	Param1          float32
	Param2          float32
	Lighting        bool
	ZWriteEnabled   bool
	BackfaceCulling bool
	Texture1        Texture `json:",omitempty"`
	Texture2        Texture `json:",omitempty"`
	ClampTexture1   bool
}

// textureLayers is the number of texture slots stored per material;
// only the first two are kept.
const textureLayers = 4

func (d *decoder) readMaterial() (Material, error) {
	c := d.cur
	var m Material
	m.Type = c.S32()
	c.Skip(4 * 4) // ambient, diffuse, emissive, specular
	c.Float32()   // shininess
	m.Param1 = c.Float32()
	m.Param2 = c.Float32()
	c.Float32() // thickness
	c.Bool()    // wireframe
	c.Bool()    // gouraud
	m.Lighting = c.Bool()
	m.ZWriteEnabled = c.Bool()
	c.U8() // zbuffer mode
	m.BackfaceCulling = c.Bool()
	c.Skip(3) // frontface culling, fog, normalize normals

	for i := 0; i < textureLayers; i++ {
		tex := d.readTextureRef()
		c.Skip(3) // bilinear, trilinear, anisotropic
		clamp := c.S16()
		switch i {
		case 0:
			m.Texture1 = tex
			m.ClampTexture1 = clamp != 0
		case 1:
			m.Texture2 = tex
		}
	}
	return m, c.Err()
}
